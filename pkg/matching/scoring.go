package matching

import (
	"math"

	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

const (
	lastNameWeight  = 0.7
	firstNameWeight = 0.3
)

// Ratio returns the indel similarity of two strings on a 0-100 scale:
// (len(a)+len(b)-indel)/(len(a)+len(b)), where indel counts the insertions and
// deletions turning a into b. Halves round to even. Either side being empty
// scores 0.
//
//	Ratio("SMITH", "SMITHSON") == 77
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	total := len(ra) + len(rb)
	indel := total - 2*longestCommonSubsequence(ra, rb)
	ratio := float64(total-indel) / float64(total)
	return int(math.RoundToEven(100 * ratio))
}

// longestCommonSubsequence keeps a single row of the DP table.
func longestCommonSubsequence(a, b []rune) int {
	row := make([]int, len(b)+1)
	for i := range a {
		diag := 0
		for j := range b {
			up := row[j+1]
			if a[i] == b[j] {
				row[j+1] = diag + 1
			} else if row[j] > up {
				row[j+1] = row[j]
			}
			diag = up
		}
	}
	return row[len(b)]
}

// NameScore compares a searched name against a stored patient name. Names
// are reduced with normalizers.NameKey first. When both parts were searched
// the last name carries most of the weight.
func NameScore(first, last, storedFirst, storedLast string) float64 {
	first = normalizers.NameKey(first)
	last = normalizers.NameKey(last)

	lastScore := float64(Ratio(last, normalizers.NameKey(storedLast)))
	firstScore := float64(Ratio(first, normalizers.NameKey(storedFirst)))

	switch {
	case first != "" && last != "":
		return lastScore*lastNameWeight + firstScore*firstNameWeight
	case last != "":
		return lastScore
	case first != "":
		return firstScore
	default:
		return 0
	}
}
