package http

import (
	"context"

	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/jwtx"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// withIdentity attaches verified access claims to the context, plus the
// bare account id where the rate limiter looks for it.
func withIdentity(ctx context.Context, claims *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIdentity, claims)
	if claims.Account != nil {
		ctx = context.WithValue(ctx, httpx.CtxKeyAccountID, claims.Account.ID)
	}
	return ctx
}

// identityFromContext returns the verified claims for the request, or
// nil for anonymous requests.
func identityFromContext(ctx context.Context) *jwtx.Claims {
	claims, _ := ctx.Value(ctxKeyIdentity).(*jwtx.Claims)
	return claims
}
