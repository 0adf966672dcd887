package audit

import (
	"context"
	"log/slog"
	"time"
)

type requestIDKey struct{}

// WithRequestID stores the request id that audit entries are correlated by.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Entry is one audited action against a collection.
type Entry struct {
	UserID     string
	Role       string
	Action     string
	Resource   string
	ResourceID string
	Status     string
	Details    string
}

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit"))}
}

func (al *Logger) LogAction(ctx context.Context, e Entry) {
	al.logger.InfoContext(ctx, "audit",
		slog.String("action", e.Action),
		slog.String("resource", e.Resource),
		slog.String("resource_id", e.ResourceID),
		slog.String("user_id", e.UserID),
		slog.String("role", e.Role),
		slog.String("status", e.Status),
		slog.String("details", e.Details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogLogin(ctx context.Context, email, status, details string) {
	al.LogAction(ctx, Entry{Action: "login", Resource: "session", ResourceID: email, Status: status, Details: details})
}

func (al *Logger) LogDenied(ctx context.Context, userID, role, reason string) {
	al.LogAction(ctx, Entry{UserID: userID, Role: role, Action: "access_denied", Resource: "api", Status: "denied", Details: reason})
}
