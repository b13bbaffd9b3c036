package cptcode

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

const (
	MsgNoCode      = "No CPT code provided"
	MsgNotFound    = "CPT code not found"
	MsgUnavailable = "CPT validation not available"
)

type cptRow struct {
	CPT         string              `db:"cpt"`
	Description sql.NullString      `db:"description"`
	DefaultFee  decimal.NullDecimal `db:"default_fee"`
}

// Repository looks up procedure codes in the reference table
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new CPT code repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Validate reports whether code, reduced to letters and digits, exists. A
// failed lookup, such as a store without the reference table, is reported
// as unavailable rather than as an error.
func (r *Repository) Validate(ctx context.Context, code string) models.CPTValidation {
	ctx, span := tracing.StartSpan(ctx, "cptcode.Repository.Validate")
	defer span.End()

	if code == "" {
		return models.CPTValidation{Valid: false, Message: MsgNoCode}
	}
	code = normalizers.Alphanumeric(code)

	sb := database.NewSelectBuilder(r.db.Flavor())
	sb.Select("cpt", "description", "default_fee")
	sb.From("cpt_codes")
	sb.Where(sb.Equal("cpt", code))

	query, args := sb.Build()
	var row cptRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CPTValidation{Valid: false, CPT: code, Message: MsgNotFound}
		}
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).WithField("cpt", code).Warn("CPT lookup failed")
		return models.CPTValidation{Valid: false, CPT: code, Message: MsgUnavailable}
	}

	fee := decimal.Zero
	if row.DefaultFee.Valid {
		fee = row.DefaultFee.Decimal
	}
	return models.CPTValidation{
		Valid:       true,
		CPT:         row.CPT,
		Description: row.Description.String,
		DefaultFee:  &fee,
	}
}
