package cpt

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/models"
)

// Validator checks procedure codes against the reference table
type Validator interface {
	Validate(ctx context.Context, code string) models.CPTValidation
}

// Handler serves CPT code validation
type Handler struct {
	validator Validator
}

// NewHandler creates a new CPT handler
func NewHandler(validator Validator) *Handler {
	return &Handler{validator: validator}
}

// Register registers CPT routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/:code", h.Validate)
}

// Validate reports whether a CPT code exists
func (h *Handler) Validate(c echo.Context) error {
	return c.JSON(http.StatusOK, h.validator.Validate(c.Request().Context(), c.Param("code")))
}
