package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/medops/internal/security"
	"github.com/aryan0dhankhar/medops/internal/security/audit"
	"github.com/aryan0dhankhar/medops/internal/security/auth"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func token(t *testing.T, tm *auth.TokenManager, role domain.Role) string {
	t.Helper()
	tok, _, err := tm.GenerateToken(domain.Identity{ID: "7", Email: "x@medops.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "")
	var seen *auth.Claims
	h := JWTMiddleware(tm, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaimsFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"public health", "/healthz", "", http.StatusOK},
		{"public login", "/api/login", "", http.StatusOK},
		{"missing", "/api/tasks", "", http.StatusUnauthorized},
		{"malformed", "/api/tasks", "Token abc", http.StatusUnauthorized},
		{"bad token", "/api/tasks", "Bearer nope", http.StatusUnauthorized},
		{"valid", "/api/tasks", "Bearer " + token(t, tm, domain.RoleNurse), http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, c.path, nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, c.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, domain.RoleNurse, seen.Role)
}

func TestJWTMiddlewareWebsocketQueryToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", "")
	h := JWTMiddleware(tm, logger.Discard())(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/changes?token="+token(t, tm, domain.RoleClinician), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?token="+token(t, tm, domain.RoleClinician), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "query tokens only for websocket routes")
}

func TestRequirePermission(t *testing.T) {
	tm := auth.NewTokenManager("secret", "")
	as := security.NewAuthorizationService(logger.Discard())
	al := audit.NewLogger(logger.Discard())
	h := JWTMiddleware(tm, logger.Discard())(RequirePermission(as, al, security.PermManageTasks)(okHandler))

	for role, want := range map[domain.Role]int{
		domain.RoleNurse:   http.StatusOK,
		domain.RolePatient: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, tm, role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	rec := httptest.NewRecorder()
	RequirePermission(as, al, security.PermManageTasks)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuditMiddlewareLogsMutations(t *testing.T) {
	var buf bytes.Buffer
	al := audit.NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	h := AuditMiddleware(al)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/tasks/3", nil))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "delete", entry["action"])
	assert.Equal(t, "tasks", entry["resource"])
	assert.Equal(t, "3", entry["resource_id"])
	assert.Equal(t, "No Content", entry["status"])

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Empty(t, buf.String())
}

func TestAuditMiddlewareReadsBehindFlag(t *testing.T) {
	t.Setenv("FLAG_AUDIT_READS", "true")
	var buf bytes.Buffer
	h := AuditMiddleware(audit.NewLogger(slog.New(slog.NewJSONHandler(&buf, nil))))(okHandler)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/patients", nil))
	assert.Contains(t, buf.String(), `"action":"read"`)
}

func TestWithRequestID(t *testing.T) {
	var got string
	h := WithRequestID(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = audit.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", got)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(logger.Discard())(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler, mw("a"), mw("b")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b"}, order)
}
