package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/service/auth"
)

// requireUserID returns the authenticated user's ID, writing a 401 when the
// auth middleware did not set one.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("user ID not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return "", false
	}
	return userID, true
}

// requirePathParam returns a non-empty chi path parameter, writing a 400
// when it is missing.
func requirePathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		HandleAPIError(w, r, domain.ErrValidation, name+" is required")
		return "", false
	}
	return value, true
}

// decodeAndValidate reads the JSON body into v and validates it, writing a
// 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
