package rates

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/middleware"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
	"github.com/Ramsey-B/fennel/pkg/rates"
)

var validate = validator.New()

// Reconciler maintains provider rates
type Reconciler interface {
	Taxonomy() rates.Taxonomy
	UpsertRate(ctx context.Context, input rates.RateInput) rates.Result
	UpsertByCategory(ctx context.Context, input rates.CategoryRateInput) rates.Result
	ProviderRates(ctx context.Context, tin string) []models.ProviderRate
}

// Handler serves rate reconciliation
type Handler struct {
	reconciler Reconciler
}

// NewHandler creates a new rates handler
func NewHandler(reconciler Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// Register registers rate routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/categories", h.ListCategories)
	g.GET("/classify/:code", h.Classify)
	g.GET("/providers/:tin", h.ListProviderRates)
	g.POST("/providers/:tin", h.UpsertRate)
	g.PUT("/providers/:tin/categories", h.UpsertByCategory)
}

// CategoryResponse describes one taxonomy category
type CategoryResponse struct {
	Name  string   `json:"name"`
	Codes []string `json:"codes"`
}

// ClassifyResponse is the category of one procedure code
type ClassifyResponse struct {
	Code     string `json:"code"`
	Category string `json:"category"`
}

// ProviderRatesResponse lists a provider's rates
type ProviderRatesResponse struct {
	TIN   string                `json:"tin"`
	Rates []models.ProviderRate `json:"rates"`
}

// ListCategories returns the procedure taxonomy
func (h *Handler) ListCategories(c echo.Context) error {
	taxonomy := h.reconciler.Taxonomy()

	categories := make([]CategoryResponse, 0)
	for _, name := range taxonomy.Categories() {
		categories = append(categories, CategoryResponse{Name: name, Codes: taxonomy.CodesIn(name)})
	}

	return c.JSON(http.StatusOK, categories)
}

// Classify returns the category of a procedure code
func (h *Handler) Classify(c echo.Context) error {
	code := normalizers.Alphanumeric(c.Param("code"))
	if code == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	return c.JSON(http.StatusOK, ClassifyResponse{
		Code:     code,
		Category: h.reconciler.Taxonomy().Classify(code),
	})
}

// ListProviderRates returns the stored rates of a provider
func (h *Handler) ListProviderRates(c echo.Context) error {
	ctx := c.Request().Context()

	tin, _ := rates.NormalizeTIN(c.Param("tin"))
	return c.JSON(http.StatusOK, ProviderRatesResponse{
		TIN:   tin,
		Rates: h.reconciler.ProviderRates(ctx, tin),
	})
}

// UpsertRate sets the rate of one procedure code for a provider
func (h *Handler) UpsertRate(c echo.Context) error {
	ctx := c.Request().Context()

	var req rates.RateInput
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.TIN = c.Param("tin")

	if err := validate.Struct(req); err != nil {
		return middleware.Invalid(err)
	}

	result := h.reconciler.UpsertRate(ctx, req)
	return c.JSON(result.StatusCode, result)
}

// UpsertByCategory sets one rate per category for a provider
func (h *Handler) UpsertByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req rates.CategoryRateInput
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.TIN = c.Param("tin")

	if err := validate.Struct(req); err != nil {
		return middleware.Invalid(err)
	}

	result := h.reconciler.UpsertByCategory(ctx, req)
	return c.JSON(result.StatusCode, result)
}
