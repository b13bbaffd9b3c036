package rate

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

const table = "ppo"

var columns = []string{"rendering_state", "tin", "provider_name", "proc_cd", "modifier", "proc_category", "rate"}

// Repository handles negotiated PPO rate persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new rate repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert updates the rate for (tin, proc_cd, modifier) if one exists and
// inserts it otherwise.
func (r *Repository) Upsert(ctx context.Context, rate models.ProviderRate) error {
	ctx, span := tracing.StartSpan(ctx, "rate.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"tin":      rate.TIN,
		"proc_cd":  rate.ProcedureCode,
		"modifier": rate.Modifier,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to begin rate transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin rate transaction")
	}
	defer tx.Rollback(ctx)

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select("COUNT(*)").From(table)
	sb.Where(
		sb.Equal("tin", rate.TIN),
		sb.Equal("proc_cd", rate.ProcedureCode),
		sb.Equal("modifier", rate.Modifier),
	)
	query, args := sb.Build()

	var count int
	if err := tx.GetContext(ctx, &count, query, args...); err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to look up existing rate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to look up existing rate")
	}

	if count > 0 {
		ub := database.NewUpdateBuilder(r.db.Flavor())
		ub.Update(table)
		ub.Set(
			ub.Assign("rendering_state", rate.RenderingState),
			ub.Assign("provider_name", rate.ProviderName),
			ub.Assign("rate", rate.Rate),
			ub.Assign("proc_category", rate.Category),
		)
		ub.Where(
			ub.Equal("tin", rate.TIN),
			ub.Equal("proc_cd", rate.ProcedureCode),
			ub.Equal("modifier", rate.Modifier),
		)
		query, args = ub.Build()
	} else {
		ib := database.NewInsertBuilder(r.db.Flavor())
		ib.InsertInto(table)
		ib.Cols(columns...)
		ib.Values(rate.RenderingState, rate.TIN, rate.ProviderName, rate.ProcedureCode, rate.Modifier, rate.Category, rate.Rate)
		query, args = ib.Build()
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to write rate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to write rate")
	}

	if err := tx.Commit(ctx); err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to commit rate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit rate")
	}

	log.WithField("updated", count > 0).Info("Upserted provider rate")
	return nil
}

// UpsertMany writes every rate in one transaction. Either all rows are
// written or none are.
func (r *Repository) UpsertMany(ctx context.Context, rates []models.ProviderRate) error {
	ctx, span := tracing.StartSpan(ctx, "rate.Repository.UpsertMany")
	defer span.End()

	if len(rates) == 0 {
		return nil
	}

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"tin":   rates[0].TIN,
		"count": len(rates),
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to begin rate transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin rate transaction")
	}
	defer tx.Rollback(ctx)

	for _, rate := range rates {
		ib := database.NewInsertBuilder(r.db.Flavor())
		ib.InsertInto(table)
		ib.Cols(columns...)
		ib.Values(rate.RenderingState, rate.TIN, rate.ProviderName, rate.ProcedureCode, rate.Modifier, rate.Category, rate.Rate)

		ub := ib.OnConflict("tin", "proc_cd", "modifier")
		ub.Set(
			ub.Assign("rendering_state", database.Excluded("rendering_state")),
			ub.Assign("provider_name", database.Excluded("provider_name")),
			ub.Assign("proc_category", database.Excluded("proc_category")),
			ub.Assign("rate", database.Excluded("rate")),
		)

		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tracing.Fail(span, err)
			log.WithError(err).WithField("proc_cd", rate.ProcedureCode).Error("Failed to upsert rate")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert rates")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to commit rates")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit rates")
	}

	log.Info("Upserted provider rates")
	return nil
}

// ListByTIN returns every rate stored for a provider, ordered by code.
func (r *Repository) ListByTIN(ctx context.Context, tin string) ([]models.ProviderRate, error) {
	ctx, span := tracing.StartSpan(ctx, "rate.Repository.ListByTIN")
	defer span.End()

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select(
		"COALESCE(rendering_state, '') AS rendering_state",
		"tin",
		"COALESCE(provider_name, '') AS provider_name",
		"proc_cd",
		"modifier",
		"COALESCE(proc_category, '') AS proc_category",
		"rate",
	)
	sb.From(table)
	sb.Where(sb.Equal("tin", tin))
	sb.OrderBy("proc_cd", "modifier")

	query, args := sb.Build()
	rates := []models.ProviderRate{}
	if err := r.db.SelectContext(ctx, &rates, query, args...); err != nil {
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).WithField("tin", tin).Error("Failed to list provider rates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list provider rates")
	}

	return rates, nil
}
