package models

const (
	DefaultMonthsRange = 3
	DefaultSearchLimit = 50
)

// SearchQuery is a request to find orders for a patient. At least one of
// FirstName and LastName must be set.
type SearchQuery struct {
	FirstName     string `json:"first_name" query:"first_name"`
	LastName      string `json:"last_name" query:"last_name"`
	DateOfService string `json:"dos" query:"dos"`
	MonthsRange   int    `json:"months_range" query:"months_range" validate:"gte=0,lte=120"`
	Limit         int    `json:"limit" query:"limit" validate:"gte=0,lte=200"`
}

// HasName reports whether any name part was supplied.
func (q SearchQuery) HasName() bool {
	return q.FirstName != "" || q.LastName != ""
}

// WithDefaults returns a copy with unset or non-positive window and limit
// replaced by their defaults.
func (q SearchQuery) WithDefaults(months, limit int) SearchQuery {
	if q.MonthsRange <= 0 {
		q.MonthsRange = months
	}
	if q.Limit <= 0 {
		q.Limit = limit
	}
	return q
}

// ScoredCandidate is an order annotated during ranking.
//
// DaysFromTarget and ClosestDOS are only set when a target date of service
// was supplied and the order has at least one parseable date of service; a
// nil DaysFromTarget means the distance is unknown and sorts last.
type ScoredCandidate struct {
	Order
	MatchScore     float64 `json:"match_score"`
	DaysFromTarget *int    `json:"days_from_target"`
	ClosestDOS     *string `json:"closest_dos"`
}
