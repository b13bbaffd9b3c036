package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "SMITH", b: "SMITH", want: 100},
		{name: "one substitution", a: "SMITH", b: "SMYTH", want: 80},
		{name: "single shared letter", a: "SMITH", b: "JONES", want: 20},
		{name: "nothing shared", a: "MARY", b: "JOHN", want: 0},
		{name: "one deletion", a: "JOHN", b: "JON", want: 86},
		{name: "one insertion", a: "JON", b: "JOHN", want: 86},
		{name: "truncated ocr", a: "SMITH", b: "SMITHSON", want: 77},
		{name: "trailing letter", a: "GARCIA", b: "GARCIAS", want: 92},
		{name: "substitution and deletion", a: "CHRIS", b: "KRIS", want: 67},
		{name: "half rounds to even", a: "JOHN", b: "JOAN", want: 75},
		{name: "empty left", a: "", b: "SMITH", want: 0},
		{name: "empty right", a: "SMITH", b: "", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
		})
	}
}

func TestNameScore(t *testing.T) {
	tests := []struct {
		name                    string
		first, last             string
		storedFirst, storedLast string
		want                    float64
	}{
		{name: "exact both", first: "John", last: "Smith", storedFirst: "JOHN", storedLast: "SMITH", want: 100},
		{name: "weighted towards last name", first: "John", last: "Smith", storedFirst: "Jon", storedLast: "Smyth", want: 81.8},
		{name: "last only", last: "smith", storedFirst: "Anyone", storedLast: "Smyth", want: 80},
		{name: "first only", first: "John", storedFirst: "Jon", storedLast: "Smith", want: 86},
		{name: "truncated stored name", last: "Smith", storedLast: "Smithson", want: 77},
		{name: "normalized before comparing", last: "Müller", storedLast: "MULLER", want: 100},
		{name: "punctuation ignored", last: "O'Brien", storedLast: "OBRIEN", want: 100},
		{name: "missing stored name", last: "Smith", storedLast: "", want: 0},
		{name: "no search names", storedFirst: "John", storedLast: "Smith", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameScore(tt.first, tt.last, tt.storedFirst, tt.storedLast)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
