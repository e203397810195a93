package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/service"
)

// AuthHandler serves registration, login and the current user's profile.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	if users == nil {
		panic("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("user registered", slog.String("user_id", resp.User.ID))
	shared.RespondWithData(w, r, http.StatusCreated, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, resp)
}

// SocialLogin handles POST /auth/social.
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req SocialLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.SocialLogin(r.Context(), service.SocialIdentity{
		Provider:       req.Provider,
		ProviderUserID: req.ProviderID,
		Email:          req.Email,
		Name:           req.Name,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, resp)
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, UserResponse{User: user})
}
