package auth

import "context"

const (
	TierFree = "free"
	TierPro  = "pro"
)

// Principal is the resolved identity attached to a request. Guest requests
// carry no principal at all.
type Principal struct {
	UserID string
	Tier   string
	Role   string
}

type ctxKey struct{}

var ctxKeyPrincipal = ctxKey{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}
