package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestErrorHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "session not found",
			err:        ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeSessionNotFound,
		},
		{
			name:       "unknown instrument",
			err:        UnknownInstrumentError("XXXX9"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnknownInstrument,
		},
		{
			name:       "validation",
			err:        ErrValidation("code", "too long"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "data load",
			err:        NewDataLoadError("unparseable price on row 7", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataLoad,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	h := newTestErrorHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			problem := h.ErrorToProblem(tt.err, req)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := newTestErrorHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/nope/events", nil)

	h.HandleError(rec, req, ErrSessionNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeSessionNotFound, body["type"])
	assert.Equal(t, "SESSION_NOT_FOUND", body["error_code"])
	assert.Equal(t, "/api/sessions/nope/events", body["instance"])
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusTooManyRequests, TypeRateLimit, "Too Many Requests", "slow down", "/api").
		WithExtension("retry_after", 60)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(60), body["retry_after"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["status"])
}

func TestIsDataLoadError(t *testing.T) {
	err := NewDataLoadError("missing required column PrecoNegocio", nil)
	assert.True(t, IsDataLoadError(err))
	assert.True(t, IsDataLoadError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsDataLoadError(fmt.Errorf("plain")))
}
