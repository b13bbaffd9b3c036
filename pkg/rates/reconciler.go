package rates

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/fennel/pkg/metrics"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

const (
	tinLength = 9

	MsgInvalidTIN      = "Invalid TIN format"
	MsgInvalidRate     = "Rate must be greater than zero"
	MsgMissingCode     = "Procedure code is required"
	MsgNoCategoryRates = "At least one category rate is required"
)

// Store persists provider rates.
type Store interface {
	Upsert(ctx context.Context, rate models.ProviderRate) error
	UpsertMany(ctx context.Context, rates []models.ProviderRate) error
	ListByTIN(ctx context.Context, tin string) ([]models.ProviderRate, error)
}

// RateInput sets the rate for one procedure code.
type RateInput struct {
	State         string          `json:"rendering_state"`
	TIN           string          `json:"tin"`
	ProviderName  string          `json:"provider_name"`
	ProcedureCode string          `json:"proc_cd" validate:"required"`
	Modifier      string          `json:"modifier"`
	Rate          decimal.Decimal `json:"rate"`
}

// CategoryRateInput sets one rate for every code in each named category.
type CategoryRateInput struct {
	State         string                     `json:"rendering_state"`
	TIN           string                     `json:"tin"`
	ProviderName  string                     `json:"provider_name"`
	CategoryRates map[string]decimal.Decimal `json:"category_rates" validate:"required,min=1"`
}

// Result is the outcome of a rate change.
type Result = models.ReconcileResult

func succeeded(message string) Result {
	return Result{Success: true, Message: message, StatusCode: http.StatusOK}
}

func invalid(message string) Result {
	return Result{Success: false, Message: message, StatusCode: http.StatusBadRequest}
}

func failed(err error) Result {
	return Result{Success: false, Message: fmt.Sprintf("Database error: %s", err.Error()), StatusCode: http.StatusInternalServerError}
}

// NormalizeTIN strips everything but digits and reports whether what is
// left is a nine digit tax identification number.
func NormalizeTIN(tin string) (string, bool) {
	digits := normalizers.DigitsOnly(tin)
	return digits, len(digits) == tinLength
}

// Reconciler updates negotiated rates for a provider.
type Reconciler struct {
	log      ectologger.Logger
	store    Store
	taxonomy Taxonomy
}

// NewReconciler creates a new rate reconciler.
func NewReconciler(log ectologger.Logger, store Store, taxonomy Taxonomy) *Reconciler {
	return &Reconciler{
		log:      log,
		store:    store,
		taxonomy: taxonomy,
	}
}

// Taxonomy returns the taxonomy used to classify codes.
func (r *Reconciler) Taxonomy() Taxonomy {
	return r.taxonomy
}

// UpsertRate sets the rate for a single procedure code. Invalid input is
// rejected before storage is touched.
func (r *Reconciler) UpsertRate(ctx context.Context, input RateInput) Result {
	ctx, span := tracing.StartSpan(ctx, "rates.Reconciler.UpsertRate")
	defer span.End()

	result := r.upsertRate(ctx, input)
	metrics.RecordRateUpsert("single", result.Success)
	return result
}

func (r *Reconciler) upsertRate(ctx context.Context, input RateInput) Result {
	tin, ok := NormalizeTIN(input.TIN)
	if !ok {
		return invalid(MsgInvalidTIN)
	}
	code := normalizers.Alphanumeric(input.ProcedureCode)
	if code == "" {
		return invalid(MsgMissingCode)
	}
	if !input.Rate.IsPositive() {
		return invalid(MsgInvalidRate)
	}

	rate := models.ProviderRate{
		RenderingState: strings.TrimSpace(input.State),
		TIN:            tin,
		ProviderName:   strings.TrimSpace(input.ProviderName),
		ProcedureCode:  code,
		Modifier:       strings.TrimSpace(input.Modifier),
		Category:       r.taxonomy.Classify(code),
		Rate:           input.Rate,
	}

	if err := r.store.Upsert(ctx, rate); err != nil {
		r.log.WithContext(ctx).WithError(err).WithField("tin", tin).Error("Failed to update provider rate")
		return failed(err)
	}

	return succeeded(fmt.Sprintf("Successfully updated rate for %s", code))
}

// UpsertByCategory sets the rate of every code in each named category with
// an empty modifier. All rows are written in one transaction.
func (r *Reconciler) UpsertByCategory(ctx context.Context, input CategoryRateInput) Result {
	ctx, span := tracing.StartSpan(ctx, "rates.Reconciler.UpsertByCategory")
	defer span.End()

	result := r.upsertByCategory(ctx, input)
	metrics.RecordRateUpsert("category", result.Success)
	return result
}

func (r *Reconciler) upsertByCategory(ctx context.Context, input CategoryRateInput) Result {
	tin, ok := NormalizeTIN(input.TIN)
	if !ok {
		return invalid(MsgInvalidTIN)
	}
	if len(input.CategoryRates) == 0 {
		return invalid(MsgNoCategoryRates)
	}

	var unknown []string
	for category, rate := range input.CategoryRates {
		if !r.taxonomy.Has(category) {
			unknown = append(unknown, category)
			continue
		}
		if !rate.IsPositive() {
			return invalid(fmt.Sprintf("%s for %s", MsgInvalidRate, category))
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return invalid(fmt.Sprintf("Unknown category: %s", strings.Join(unknown, ", ")))
	}

	var rows []models.ProviderRate
	for _, category := range r.taxonomy.Categories() {
		rate, ok := input.CategoryRates[category]
		if !ok {
			continue
		}
		for _, code := range r.taxonomy.CodesIn(category) {
			rows = append(rows, models.ProviderRate{
				RenderingState: strings.TrimSpace(input.State),
				TIN:            tin,
				ProviderName:   strings.TrimSpace(input.ProviderName),
				ProcedureCode:  code,
				Modifier:       "",
				Category:       category,
				Rate:           rate,
			})
		}
	}

	if err := r.store.UpsertMany(ctx, rows); err != nil {
		r.log.WithContext(ctx).WithError(err).WithField("tin", tin).Error("Failed to update provider rates by category")
		return failed(err)
	}

	return succeeded(fmt.Sprintf("Updated %d procedure rates across %d categories", len(rows), len(input.CategoryRates)))
}

// ProviderRates lists the stored rates of a provider. An invalid TIN or a
// storage failure yields an empty list.
func (r *Reconciler) ProviderRates(ctx context.Context, tin string) []models.ProviderRate {
	ctx, span := tracing.StartSpan(ctx, "rates.Reconciler.ProviderRates")
	defer span.End()

	tin, ok := NormalizeTIN(tin)
	if !ok {
		return []models.ProviderRate{}
	}

	rates, err := r.store.ListByTIN(ctx, tin)
	if err != nil {
		r.log.WithContext(ctx).WithError(err).WithField("tin", tin).Error("Failed to retrieve provider rates")
		return []models.ProviderRate{}
	}
	return rates
}
