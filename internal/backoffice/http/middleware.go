package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/folioworks/backoffice/pkg/slogx"
)

// IdentityMiddleware resolves the request's identity from the token
// cookies, silently renewing an expired access token off the refresh
// token. No outcome here ever fails the request; an unusable token pair
// just leaves the request anonymous and the gates downstream answer.
func IdentityMiddleware(codec *jwtx.Codec, sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, refresh := httpx.ReadTokenCookies(r)
			if access == "" && refresh == "" {
				next.ServeHTTP(w, r)
				return
			}

			if access != "" {
				res := codec.Verify(access)
				if res.Valid && res.Claims.RequireAccess() == nil {
					next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), res.Claims)))
					return
				}
				// Only expiry earns a renewal round trip. A token that
				// fails verification for any other reason leaves the
				// request anonymous even when a refresh cookie rides
				// along.
				if !res.Expired {
					next.ServeHTTP(w, r)
					return
				}
			}

			if refresh == "" {
				next.ServeHTTP(w, r)
				return
			}

			newAccess, claims, err := sessions.RenewAccessToken(r.Context(), refresh)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("access token renewed", "sid", claims.SID)
			httpx.SetAccessTokenCookie(w, newAccess, codec.AccessTTL())
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// elevatedIdentity returns the snapshot when the context carries a
// complete, elevated identity; nil otherwise.
func elevatedIdentity(r *http.Request) *jwtx.AccountSnapshot {
	claims := identityFromContext(r.Context())
	if claims == nil || claims.Account == nil {
		return nil
	}
	acct := claims.Account
	if acct.Firstname == "" || acct.Lastname == "" || acct.Email == "" {
		return nil
	}
	if !domain.Role(acct.Role).IsElevated() {
		return nil
	}
	return acct
}

// RequireAuth gates a route on a complete elevated identity.
func RequireAuth() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if elevatedIdentity(r) == nil {
				writeError(w, r, domain.ErrForbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTopmost additionally gates on the topmost role. Runs after
// RequireAuth in every chain that uses it.
func RequireTopmost() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct := elevatedIdentity(r)
			if acct == nil || !domain.Role(acct.Role).IsTopmost() {
				writeError(w, r, domain.ErrForbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
