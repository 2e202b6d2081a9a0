package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ems-portal/ems-portal/internal/shared"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("group %q: %w", "x", ErrNotFound), http.StatusNotFound},
		{shared.ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("verify: %w", shared.ErrCSRFTokenMismatch), http.StatusForbidden},
		{shared.ErrCSRFTokenMissing, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{shared.ErrSessionMissing, http.StatusUnauthorized},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func TestRespondErrorWritesProblem(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/home/sidebar/groups/nope", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimw.RequestIDKey, "req-42"))
	rr := httptest.NewRecorder()

	RespondError(rr, req, fmt.Errorf("sidebar group %q: %w", "nope", ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, "Not Found", problem.Title)
	assert.Equal(t, "/home/sidebar/groups/nope", problem.Instance)
	assert.Equal(t, "req-42", problem.RequestID)
	assert.Contains(t, problem.Detail, "nope")
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("dial tcp: secret-host"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret-host")
}

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, map[string]bool{"loading": true})
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"loading":true}`, rr.Body.String())
}
