package audit

import "context"

type clientIPKey struct{}

// WithClientIP stashes the client IP on the context for later Record calls.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the client IP stashed by WithClientIP, or ""
// when none was set.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
