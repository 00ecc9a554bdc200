package httpx

import "context"

type ctxKey string

// CtxKeyAccountID carries the authenticated account ID once the
// authorization gate has passed. Rate limiters key on it when present.
const CtxKeyAccountID ctxKey = "account_id"

// AccountIDFromContext returns the authenticated account ID, or "" when the
// request has not passed the gate.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}

// ContextWithAccountID attaches the authenticated account ID for downstream
// middleware and handlers.
func ContextWithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyAccountID, id)
}
