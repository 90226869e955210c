package httpx

import (
	"net/http"
	"time"
)

// Cookie names for the token pair. Cross-origin admin frontends need
// SameSite=None, which in turn forces Secure.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func tokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// SetAccessTokenCookie sets only the access token cookie, used by the
// silent renewal path where the refresh cookie stays untouched.
func SetAccessTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, tokenCookie(AccessTokenCookie, token, ttl))
}

// SetTokenCookies sets both token cookies with their own lifetimes.
func SetTokenCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, tokenCookie(AccessTokenCookie, access, accessTTL))
	http.SetCookie(w, tokenCookie(RefreshTokenCookie, refresh, refreshTTL))
}

// ClearTokenCookies expires both token cookies. The attributes must
// match the ones used when setting or browsers keep the originals.
func ClearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, tokenCookie(AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, tokenCookie(RefreshTokenCookie, "", -time.Second))
}

// ReadTokenCookies pulls the token pair off the request. Absent cookies
// come back as empty strings.
func ReadTokenCookies(r *http.Request) (access, refresh string) {
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		access = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		refresh = c.Value
	}
	return access, refresh
}
