package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartlap/pkg/contracts/domain"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"timeout", fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, TypeTimeout},
		{"api error", ErrUnsupportedFormat, http.StatusBadRequest, TypeValidation},
		{"heat not found api", HeatNotFoundError("drive", "1"), http.StatusNotFound, TypeHeatNotFound},
		{"record not found", fmt.Errorf("load: %w", domain.ErrRecordNotFound), http.StatusNotFound, TypeHeatNotFound},
		{"malformed", fmt.Errorf("decode: %w", domain.ErrMalformedRecord), http.StatusUnprocessableEntity, TypeHeatMalformed},
		{"unknown track", domain.ErrUnknownTrack, http.StatusBadRequest, TypeValidation},
		{"network", NewNetworkError("timing site down", nil), http.StatusBadGateway, TypeScrapeFailed},
		{"parsing", NewParsingError("bad html", nil), http.StatusBadGateway, TypeScrapeFailed},
		{"storage", NewStorageError("disk full", nil), http.StatusInternalServerError, TypeStorageFailure},
		{"validation", NewAppValidationError("bad"), http.StatusBadRequest, TypeValidation},
		{"not found app", NewNotFoundError("thing", nil), http.StatusNotFound, TypeNotFound},
		{"config", NewConfigError("bad", nil), http.StatusInternalServerError, TypeInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/heats/drive/1", nil)
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/heats/drive/1", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblem(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/heats/drive/1", nil)

	h.HandleError(rec, r, HeatNotFoundError("drive", "1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeHeatNotFound, body["type"])
	assert.Equal(t, "HEAT_NOT_FOUND", body["error_code"])
	assert.Equal(t, "heat drive/1 not found", body["detail"])
	assert.Equal(t, float64(404), body["status"])
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestHandlePanicAndFallbacks(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), true)

	rec := httptest.NewRecorder()
	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "kaboom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")

	rec = httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/api/heats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "PATCH")
}

func TestProblemDetailsJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "").
		WithExtension("errors", []ValidationError{{Field: "track", Message: "required"}})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
	assert.Len(t, body["errors"], 1)

	var empty ProblemDetails
	empty.WithExtension("k", 1)
	assert.Equal(t, 1, empty.Extensions["k"])
}
