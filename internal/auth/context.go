package auth

import "context"

type contextKey string

const authContextKey contextKey = "scribe_auth"

// Info holds the authenticated identity for a request. KeyID is a short
// digest prefix usable as a rate-limit bucket and in logs; the key itself
// is never retained.
type Info struct {
	KeyID string
}

func ContextWithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, authContextKey, info)
}

func InfoFromContext(ctx context.Context) (*Info, bool) {
	info, ok := ctx.Value(authContextKey).(*Info)
	return info, ok
}
