package search

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/middleware"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

var validate = validator.New()

// Searcher runs patient searches
type Searcher interface {
	Search(ctx context.Context, query models.SearchQuery) ([]models.ScoredCandidate, error)
}

// Handler serves patient search
type Handler struct {
	searcher Searcher
}

// NewHandler creates a new search handler
func NewHandler(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

// Register registers search routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.Search)
}

// Response is the search response body
type Response struct {
	Results []models.ScoredCandidate `json:"results"`
}

// Search finds orders for a patient. A free-form patient_name is split into
// first and last name when neither is given.
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var query models.SearchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	if name := c.QueryParam("patient_name"); name != "" && !query.HasName() {
		query.FirstName, query.LastName = normalizers.SplitPatientName(name)
	}

	if err := validate.Struct(query); err != nil {
		return middleware.Invalid(err)
	}

	results, err := h.searcher.Search(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Response{Results: results})
}
