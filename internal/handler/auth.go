package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/security/audit"
	"github.com/aryan0dhankhar/medops/internal/security/auth"
	"github.com/aryan0dhankhar/medops/internal/security/middleware"
	"github.com/aryan0dhankhar/medops/internal/security/ratelimit"
	"github.com/aryan0dhankhar/medops/internal/service"
	"github.com/aryan0dhankhar/medops/internal/session"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the API token and the signed-in identity.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      domain.Identity `json:"user"`
}

// SessionResponse describes the console session.
type SessionResponse struct {
	State   string           `json:"state"`
	Pending bool             `json:"pending"`
	User    *domain.Identity `json:"user"`
}

// AuthHandler handles login, logout and identity lookups.
type AuthHandler struct {
	facade       *service.Facade
	directory    *session.Directory
	tokenManager *auth.TokenManager
	limiter      *ratelimit.Limiter
	audit        *audit.Logger
	tokenTTL     time.Duration
	logger       *slog.Logger
}

func NewAuthHandler(
	f *service.Facade,
	dir *session.Directory,
	tm *auth.TokenManager,
	limiter *ratelimit.Limiter,
	auditLog *audit.Logger,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		facade:       f,
		directory:    dir,
		tokenManager: tm,
		limiter:      limiter,
		audit:        auditLog,
		tokenTTL:     tokenTTL,
		logger:       orDefault(logger),
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode login request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	if !h.limiter.Allow(strings.ToLower(req.Email)) {
		h.audit.LogLogin(r.Context(), req.Email, "throttled", "")
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	id, err := h.facade.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		h.audit.LogLogin(r.Context(), req.Email, "rejected", "")
		// Generic error to prevent user enumeration
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug("login abandoned", slog.String("email", req.Email))
		writeError(w, http.StatusRequestTimeout, "login cancelled")
		return
	case err != nil:
		h.logger.Error("login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "login failed")
		return
	}

	token, expires, err := h.tokenManager.GenerateToken(id, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("user_id", id.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	h.audit.LogLogin(r.Context(), req.Email, "ok", string(id.Role))
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires, User: id}, h.logger)
}

// Logout handles POST /api/logout. Only the holder of the console session
// ends it; other callers just drop their token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !h.ownsSession(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.facade.Logout(r.Context()); err != nil {
		h.logger.Warn("logout could not clear stored session", slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me, returning the token holder's directory entry.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := h.directory.Lookup(claims.Email)
	if !ok {
		writeError(w, http.StatusNotFound, "user no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, id, h.logger)
}

// Session handles GET /api/session. The console identity is shown only to
// its own token holder.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponse{State: session.Anonymous.String(), Pending: h.facade.LoginPending()}
	if id, ok := h.facade.CurrentIdentity(); ok && h.ownsSession(r) {
		resp.State = session.Authenticated.String()
		resp.User = &id
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// ownsSession reports whether the caller's token subject is the identity
// holding the console session.
func (h *AuthHandler) ownsSession(r *http.Request) bool {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		return false
	}
	id, ok := h.facade.CurrentIdentity()
	return ok && id.ID == claims.UserID
}
