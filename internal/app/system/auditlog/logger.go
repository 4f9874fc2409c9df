// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	"github.com/dalemusser/skillmatch/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in, registration and verification events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for administrative and creation events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil store downgrades "db" and "all" to zap-only.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "log"
	}
	if setting == "off" {
		return
	}

	toDB := (setting == "all" || setting == "db") && l.store != nil
	if setting == "all" || setting == "log" || (setting == "db" && l.store == nil) {
		l.logToZap(event)
	}
	if toDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed logs a sign-in the backend rejected.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// LoginRateLimited logs a sign-in refused locally by the limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := base(r, audit.CategoryAuth, audit.EventLogout, true)
	e.UserID = userID
	l.Log(ctx, e)
}

// Registered logs a new account awaiting verification.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventRegistered, true)
	e.UserID = userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// Verified logs a successful email verification.
func (l *Logger) Verified(ctx context.Context, r *http.Request, userID string) {
	e := base(r, audit.CategoryAuth, audit.EventVerified, true)
	e.UserID = userID
	l.Log(ctx, e)
}

// VerificationFailed logs a rejected verification code.
func (l *Logger) VerificationFailed(ctx context.Context, r *http.Request, userID, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventVerificationFailed, false)
	e.UserID = userID
	e.FailureReason = reason
	l.Log(ctx, e)
}

// --- Admin Events ---

// UserRoleChanged logs an admin changing another user's role.
func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actorID, targetID, from, to string) {
	e := base(r, audit.CategoryAdmin, audit.EventUserRoleChanged, true)
	e.ActorID = actorID
	e.UserID = targetID
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

// UserDeleted logs an admin deleting a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetID string) {
	e := base(r, audit.CategoryAdmin, audit.EventUserDeleted, true)
	e.ActorID = actorID
	e.UserID = targetID
	l.Log(ctx, e)
}

// GroupCreated logs a new project group.
func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, actorID, name string) {
	e := base(r, audit.CategoryAdmin, audit.EventGroupCreated, true)
	e.ActorID = actorID
	e.Details = map[string]string{"name": name}
	l.Log(ctx, e)
}

// ProjectCreated logs a new project.
func (l *Logger) ProjectCreated(ctx context.Context, r *http.Request, actorID, title string) {
	e := base(r, audit.CategoryAdmin, audit.EventProjectCreated, true)
	e.ActorID = actorID
	e.Details = map[string]string{"title": title}
	l.Log(ctx, e)
}
