package matching

import (
	"slices"
	"strings"

	"github.com/Ramsey-B/fennel/pkg/dates"
	"github.com/Ramsey-B/fennel/pkg/models"
)

// SortByProximity orders candidates by how close their nearest date of
// service is to target. Candidates without a parseable date of service sort
// last. When target does not parse the candidates are returned in their
// original order. The input slice is never modified.
func SortByProximity(candidates []models.ScoredCandidate, target string) []models.ScoredCandidate {
	sorted := slices.Clone(candidates)

	targetDate, ok := dates.Parse(target)
	if !ok {
		return sorted
	}

	for i := range sorted {
		sorted[i].DaysFromTarget = nil
		sorted[i].ClosestDOS = nil

		for _, raw := range sorted[i].DatesOfService {
			dos := strings.TrimSpace(raw)
			d, ok := dates.Parse(dos)
			if !ok {
				continue
			}
			days := dates.DaysBetween(targetDate, d)
			if sorted[i].DaysFromTarget == nil || days < *sorted[i].DaysFromTarget {
				sorted[i].DaysFromTarget = &days
				sorted[i].ClosestDOS = &dos
			}
		}
	}

	slices.SortStableFunc(sorted, func(a, b models.ScoredCandidate) int {
		switch {
		case a.DaysFromTarget == nil && b.DaysFromTarget == nil:
			return 0
		case a.DaysFromTarget == nil:
			return 1
		case b.DaysFromTarget == nil:
			return -1
		default:
			return *a.DaysFromTarget - *b.DaysFromTarget
		}
	})
	return sorted
}
