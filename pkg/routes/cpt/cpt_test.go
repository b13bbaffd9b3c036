package cpt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fennel/internal/repositories/cptcode"
	"github.com/Ramsey-B/fennel/pkg/database/dbtest"
	"github.com/Ramsey-B/fennel/pkg/models"
)

func TestHandler_Validate(t *testing.T) {
	db := dbtest.New(t)
	dbtest.InsertCPTCode(t, db, "70551", "MRI BRAIN W/O CONTRAST", "1250")

	e := echo.New()
	NewHandler(cptcode.NewRepository(db, dbtest.Logger())).Register(e.Group("/api/v1/cpt"))

	tests := []struct {
		name  string
		code  string
		valid bool
		msg   string
	}{
		{name: "known code", code: "70551", valid: true},
		{name: "unknown code", code: "99999", valid: false, msg: cptcode.MsgNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cpt/"+tt.code, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var got models.CPTValidation
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}
