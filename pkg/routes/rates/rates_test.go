package rates

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	raterepo "github.com/Ramsey-B/fennel/internal/repositories/rate"
	"github.com/Ramsey-B/fennel/pkg/database/dbtest"
	"github.com/Ramsey-B/fennel/pkg/middleware"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/rates"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	db := dbtest.New(t)
	reconciler := rates.NewReconciler(dbtest.Logger(), raterepo.NewRepository(db, dbtest.Logger()), rates.DefaultTaxonomy())

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(dbtest.Logger())
	NewHandler(reconciler).Register(e.Group("/api/v1/rates"))
	return e
}

func request(t *testing.T, e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Taxonomy(t *testing.T) {
	e := newEcho(t)

	t.Run("categories", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/v1/rates/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var categories []CategoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
		require.Len(t, categories, 7)
		assert.Equal(t, "MRI w/o", categories[0].Name)
		assert.Contains(t, categories[0].Codes, "70551")
	})

	t.Run("classify", func(t *testing.T) {
		tests := []struct {
			code string
			want ClassifyResponse
		}{
			{code: "70551", want: ClassifyResponse{Code: "70551", Category: "MRI w/o"}},
			{code: "99999", want: ClassifyResponse{Code: "99999", Category: models.UncategorizedCategory}},
		}

		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				rec := request(t, e, http.MethodGet, "/api/v1/rates/classify/"+tt.code, nil)
				require.Equal(t, http.StatusOK, rec.Code)

				var got ClassifyResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestHandler_ProviderRates(t *testing.T) {
	e := newEcho(t)

	t.Run("single rate", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/v1/rates/providers/12-3456789", map[string]any{
			"rendering_state": "TX",
			"provider_name":   "Acme Imaging",
			"proc_cd":         "70551",
			"rate":            "425.50",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result models.ReconcileResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, "Successfully updated rate for 70551", result.Message)
	})

	t.Run("by category", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/v1/rates/providers/123456789/categories", map[string]any{
			"category_rates": map[string]any{"Xray": 40},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Updated 20 procedure rates across 1 categories")
	})

	t.Run("list", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/v1/rates/providers/123456789", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body ProviderRatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "123456789", body.TIN)
		assert.Len(t, body.Rates, 21)
	})

	t.Run("invalid tin", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/v1/rates/providers/123", map[string]any{
			"proc_cd": "70551",
			"rate":    10,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var result models.ReconcileResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Equal(t, rates.MsgInvalidTIN, result.Message)
	})

	t.Run("missing procedure code", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/v1/rates/providers/123456789", map[string]any{"rate": 10})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing category rates", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/v1/rates/providers/123456789/categories", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list with invalid tin is empty", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/v1/rates/providers/123", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body ProviderRatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Empty(t, body.Rates)
	})
}
