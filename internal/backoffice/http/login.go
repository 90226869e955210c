package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/jwtx"
)

type LoginHandler struct {
	Sessions *service.SessionService
	Codec    *jwtx.Codec
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the session summary. The admin rides along with its
// password hash already stripped by the domain type's json tags.
type loginResponse struct {
	Session domain.Session `json:"session"`
	Admin   domain.Admin   `json:"admin"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := requireNonEmpty(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, "email", "password"); err != nil {
		writeError(w, r, err)
		return
	}

	var userAgent *string
	if ua := r.UserAgent(); ua != "" {
		userAgent = &ua
	}

	result, err := h.Sessions.Login(r.Context(), req.Email, req.Password, userAgent)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.SetTokenCookies(w, result.Access, result.Refresh, h.Codec.AccessTTL(), h.Codec.RefreshTTL())
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Session: result.Session,
		Admin:   result.Admin,
	})
}

type LogoutHandler struct {
	Sessions *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// RequireAuth ran first, so the identity is present and complete.
	acct := elevatedIdentity(r)

	h.Sessions.Logout(r.Context(), acct.ID)

	// Cookies go regardless of how the background revocation fares.
	httpx.ClearTokenCookies(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged_out"})
}
