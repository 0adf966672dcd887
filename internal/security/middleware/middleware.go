package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/medops/internal/featureflags"
	"github.com/aryan0dhankhar/medops/internal/security"
	"github.com/aryan0dhankhar/medops/internal/security/audit"
	"github.com/aryan0dhankhar/medops/internal/security/auth"
)

type ClaimsContextKey struct{}

var publicPaths = map[string]bool{
	"/healthz":   true,
	"/readyz":    true,
	"/metrics":   true,
	"/api/login": true,
}

func isPublic(r *http.Request) bool {
	return r.Method == http.MethodOptions || publicPaths[r.URL.Path]
}

// JWTMiddleware authenticates every non-public request. Browsers cannot set
// headers on websocket upgrades, so /ws/ routes also accept ?token=.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			var tokenString string
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				tok, err := auth.ExtractToken(authHeader)
				if err != nil {
					writeError(w, http.StatusUnauthorized, "invalid auth")
					return
				}
				tokenString = tok
			} else if strings.HasPrefix(r.URL.Path, "/ws/") {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "missing auth")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission guards a single route with a role permission.
func RequirePermission(as *security.AuthorizationService, auditLog *audit.Logger, perm security.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "missing auth")
				return
			}
			if err := as.ValidatePermission(claims.Role, perm); err != nil {
				auditLog.LogDenied(r.Context(), claims.UserID, string(claims.Role), err.Error())
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every mutating /api call. Reads are recorded only
// when FLAG_AUDIT_READS is on.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource, id, ok := apiResource(r.URL.Path)
			if !ok || resource == "login" {
				next.ServeHTTP(w, r)
				return
			}
			var action string
			switch r.Method {
			case http.MethodPost:
				action = "create"
				if resource == "logout" {
					action = "logout"
				}
			case http.MethodPatch:
				action = "update"
			case http.MethodDelete:
				action = "delete"
			case http.MethodGet:
				if featureflags.Enabled(featureflags.AuditReads) {
					action = "read"
				}
			}
			if action == "" {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			entry := audit.Entry{Action: action, Resource: resource, ResourceID: id, Status: http.StatusText(sw.status)}
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				entry.UserID = claims.UserID
				entry.Role = string(claims.Role)
			}
			auditLog.LogAction(r.Context(), entry)
		})
	}
}

// WithRequestID tags the request with an id (honouring an inbound
// X-Request-ID) and logs its completion.
func WithRequestID(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			ctx := audit.WithRequestID(r.Context(), reqID)
			start := time.Now()

			next.ServeHTTP(w, r.WithContext(ctx))

			log.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration_ms", time.Since(start)),
			)
		})
	}
}

// CORS answers preflight requests and sets allow headers for configured origins.
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if OriginAllowed(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(allowed) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", allowed[0])
			}
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func OriginAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Chain applies mws so that the first one is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(ClaimsContextKey{}).(*auth.Claims)
	return c
}

// apiResource splits /api/<resource>[/<id>].
func apiResource(path string) (resource, id string, ok bool) {
	rest, found := strings.CutPrefix(path, "/api/")
	if !found || rest == "" {
		return "", "", false
	}
	resource, id, _ = strings.Cut(rest, "/")
	return resource, id, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
