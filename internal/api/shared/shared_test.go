package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := UserID(context.Background())
	assert.False(t, ok)

	_, ok = UserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := UserID(WithUserID(context.Background(), "user-1"))
	require.True(t, ok)
	assert.Equal(t, "user-1", id)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))
	assert.Len(t, first, TraceIDLength*2)
	assert.NotEqual(t, first, second)
	assert.Len(t, generateFallbackTraceID(), TraceIDLength*2)
}

func TestRespondWithData(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	w := httptest.NewRecorder()

	RespondWithData(w, req, http.StatusOK, map[string]int{"energy": 4})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"energy":4}}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/courses/x", nil)
	req = req.WithContext(context.WithValue(req.Context(), TraceIDKey, "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Course not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"message":"Course not found","trace_id":"trace-1"}}`,
		w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "client error", status: http.StatusBadRequest},
		{name: "elevated client error", status: http.StatusUnauthorized, opts: []ResponseOption{WithElevatedLogLevel()}},
		{name: "rate limited", status: http.StatusTooManyRequests},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/progress/update", nil)
			w := httptest.NewRecorder()
			err := errors.New("dial postgres://bloom:hunter2@db:5432/bloom")

			RespondWithErrorAndLog(w, req, tc.status, "Something went wrong", err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			var env Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, "Something went wrong", env.Error.Message)
			assert.NotContains(t, w.Body.String(), "hunter2")
		})
	}
}

type tagged struct {
	Email string `json:"email" validate:"required,email"`
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("invalid")
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	var body tagged
	require.NoError(t, DecodeJSON(w, req, &body))
	assert.NoError(t, ValidateRequest(&body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.Error(t, DecodeJSON(w, req, &body))

	assert.Error(t, ValidateRequest(&tagged{Email: "nope"}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{}))
}
