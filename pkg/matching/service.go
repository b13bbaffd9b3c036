// Package matching finds orders for a patient named in an OCR'd document.
// Retrieval is deliberately broad; Rank and SortByProximity narrow and order
// the candidates in memory.
package matching

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/fennel/internal/repositories/order"
	"github.com/Ramsey-B/fennel/pkg/dates"
	"github.com/Ramsey-B/fennel/pkg/metrics"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

// MsgMissingName is the 400 message for a search with neither a first nor a
// last name.
const MsgMissingName = "Please provide at least a first or last name"

// Retriever loads the broad candidate set for a search.
type Retriever interface {
	FindCandidates(ctx context.Context, criteria order.CandidateCriteria) ([]models.Order, error)
}

// Config contains configuration for the search service.
type Config struct {
	Rank               RankConfig
	DefaultMonthsRange int // Window either side of the date of service (default: 3)
	DefaultLimit       int // Results returned when the caller sets no limit (default: 50)
	OverfetchFactor    int // Rows fetched per requested result (default: 3)
	RowCap             int // Hard cap on rows fetched (default: 200)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Rank:               DefaultRankConfig(),
		DefaultMonthsRange: models.DefaultMonthsRange,
		DefaultLimit:       models.DefaultSearchLimit,
		OverfetchFactor:    3,
		RowCap:             200,
	}
}

// Service runs patient searches.
type Service struct {
	log       ectologger.Logger
	retriever Retriever
	cfg       Config
}

// NewService creates a new search service.
func NewService(log ectologger.Logger, retriever Retriever, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.DefaultMonthsRange <= 0 {
		cfg.DefaultMonthsRange = defaults.DefaultMonthsRange
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaults.DefaultLimit
	}
	if cfg.Rank.NoMatchPolicy == "" {
		cfg.Rank.NoMatchPolicy = NoMatchPolicyEmpty
	}

	return &Service{
		log:       log,
		retriever: retriever,
		cfg:       cfg,
	}
}

// Search returns the orders that best match the query, at most query.Limit
// of them. A missing name is a 400 error. Storage failures are logged and
// yield an empty result.
func (s *Service) Search(ctx context.Context, query models.SearchQuery) ([]models.ScoredCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.Search")
	defer span.End()

	started := time.Now()
	query.FirstName = strings.TrimSpace(query.FirstName)
	query.LastName = strings.TrimSpace(query.LastName)
	query.DateOfService = strings.TrimSpace(query.DateOfService)

	if !query.HasName() {
		metrics.RecordSearch(metrics.OutcomeInvalid, time.Since(started).Seconds(), 0, 0)
		return nil, httperror.NewHTTPError(http.StatusBadRequest, MsgMissingName)
	}

	query = query.WithDefaults(s.cfg.DefaultMonthsRange, s.cfg.DefaultLimit)
	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"months_range": query.MonthsRange,
		"limit":        query.Limit,
		"has_dos":      query.DateOfService != "",
	})

	criteria := order.CandidateCriteria{
		FirstName: query.FirstName,
		LastName:  query.LastName,
		Limit:     s.rowLimit(query.Limit),
	}
	if query.DateOfService != "" {
		if start, end, ok := dates.Range(query.DateOfService, query.MonthsRange); ok {
			criteria.StartDate = start
			criteria.EndDate = end
		} else {
			log.Debug("Date of service did not parse; searching without a date window")
		}
	}

	candidates, err := s.retriever.FindCandidates(ctx, criteria)
	if err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to retrieve search candidates")
		metrics.RecordSearch(metrics.OutcomeStoreError, time.Since(started).Seconds(), 0, 0)
		return []models.ScoredCandidate{}, nil
	}

	results := Rank(candidates, query.FirstName, query.LastName, s.cfg.Rank)
	if query.DateOfService != "" && len(results) > 0 {
		results = SortByProximity(results, query.DateOfService)
	}
	if len(results) > query.Limit {
		results = results[:query.Limit]
	}

	outcome := metrics.OutcomeOK
	if len(results) == 0 {
		outcome = metrics.OutcomeNoMatch
	}
	metrics.RecordSearch(outcome, time.Since(started).Seconds(), len(candidates), len(results))
	span.SetAttributes(
		attribute.Int("search.retrieved", len(candidates)),
		attribute.Int("search.returned", len(results)),
	)

	log.WithFields(map[string]any{
		"retrieved": len(candidates),
		"returned":  len(results),
	}).Debug("Search completed")

	return results, nil
}

func (s *Service) rowLimit(limit int) int {
	factor := s.cfg.OverfetchFactor
	if factor <= 0 {
		factor = 1
	}
	rows := limit * factor
	if s.cfg.RowCap > 0 && rows > s.cfg.RowCap {
		rows = s.cfg.RowCap
	}
	return rows
}
