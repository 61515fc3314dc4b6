package logger

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	scopeKey ctxKey = iota
	loggerKey
)

// scope carries the correlation values attached to every log line of a
// request. It is copied on write so parent contexts never change.
type scope struct {
	requestID string
	userID    string
	entryID   string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey).(scope)
	return s
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeFrom(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey, s)
}

// WithRequestID stores the request ID, generating a UUID when it is empty
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return withScope(ctx, func(s *scope) { s.requestID = requestID })
}

// RequestIDFromContext returns the request ID, or ""
func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// WithUserID stores the authenticated user
func WithUserID(ctx context.Context, userID string) context.Context {
	return withScope(ctx, func(s *scope) { s.userID = userID })
}

// UserIDFromContext returns the authenticated user, or ""
func UserIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).userID
}

// WithEntryID tags the energy log an append or its recompute is about
func WithEntryID(ctx context.Context, entryID string) context.Context {
	return withScope(ctx, func(s *scope) { s.entryID = entryID })
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, or returns the default logger
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

func (s scope) fields() []Field {
	var fields []Field
	if s.requestID != "" {
		fields = append(fields, String("request_id", s.requestID))
	}
	if s.userID != "" {
		fields = append(fields, String("user_id", s.userID))
	}
	if s.entryID != "" {
		fields = append(fields, String("entry_id", s.entryID))
	}
	return fields
}

// Ctx returns the context's logger enriched with its correlation values
func Ctx(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
