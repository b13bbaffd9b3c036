package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

// Invalid converts a struct validation failure into a 400 whose meta maps
// each failing field to the rule it broke.
func Invalid(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field())
	}

	he := httperror.NewHTTPError(http.StatusBadRequest, "invalid "+strings.Join(names, ", "))
	for _, f := range fields {
		he = he.AddMetaValue(f.Field(), f.Tag())
	}
	return he
}
