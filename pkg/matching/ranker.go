package matching

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

// NoMatchPolicy decides what Rank returns when no candidate clears the threshold.
type NoMatchPolicy string

const (
	// NoMatchPolicyEmpty returns no results.
	NoMatchPolicyEmpty NoMatchPolicy = "empty"
	// NoMatchPolicyUnranked returns every retrieved candidate in retrieval
	// order with its (sub-threshold) score.
	NoMatchPolicyUnranked NoMatchPolicy = "unranked"
)

// ParseNoMatchPolicy maps a configuration value to a policy.
func ParseNoMatchPolicy(s string) (NoMatchPolicy, error) {
	switch NoMatchPolicy(normalizers.ApplyChain(s, "trim")) {
	case "", NoMatchPolicyEmpty:
		return NoMatchPolicyEmpty, nil
	case NoMatchPolicyUnranked:
		return NoMatchPolicyUnranked, nil
	default:
		return "", fmt.Errorf("unknown no-match policy %q", s)
	}
}

// RankConfig contains configuration for fuzzy ranking.
type RankConfig struct {
	Threshold     float64 // Minimum combined score to keep a candidate (default: 75)
	MaxResults    int     // Maximum candidates kept after ranking (default: 50)
	NoMatchPolicy NoMatchPolicy
}

// DefaultRankConfig returns the production defaults.
func DefaultRankConfig() RankConfig {
	return RankConfig{
		Threshold:     75,
		MaxResults:    models.DefaultSearchLimit,
		NoMatchPolicy: NoMatchPolicyEmpty,
	}
}

// Rank scores each candidate against the searched names, keeps those at or
// above the threshold and orders them by score descending. Equal scores keep
// their retrieval order. The input slice is never modified.
func Rank(candidates []models.Order, first, last string, cfg RankConfig) []models.ScoredCandidate {
	scored := make([]models.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = models.ScoredCandidate{Order: c}
	}

	// names that normalize to nothing still score, and fall to the no-match policy
	if len(candidates) == 0 || (strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "") {
		return scored
	}

	kept := make([]models.ScoredCandidate, 0, len(scored))
	for i := range scored {
		scored[i].MatchScore = NameScore(first, last, scored[i].PatientFirstName, scored[i].PatientLastName)
		if scored[i].MatchScore >= cfg.Threshold {
			kept = append(kept, scored[i])
		}
	}

	if len(kept) == 0 {
		if cfg.NoMatchPolicy == NoMatchPolicyUnranked {
			return scored
		}
		return kept
	}

	slices.SortStableFunc(kept, func(a, b models.ScoredCandidate) int {
		switch {
		case a.MatchScore > b.MatchScore:
			return -1
		case a.MatchScore < b.MatchScore:
			return 1
		default:
			return 0
		}
	})

	if cfg.MaxResults > 0 && len(kept) > cfg.MaxResults {
		kept = kept[:cfg.MaxResults]
	}
	return kept
}
