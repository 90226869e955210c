package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
)

type ResetPasswordHandler struct {
	ResetTokens *service.ResetTokenService
}

type resetRequest struct {
	Email string `json:"email"`
}

// HandleRequest starts a reset. The response is the same whether or not
// the email has an account behind it.
func (h *ResetPasswordHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := validateEmail("email", req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.ResetTokens.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "reset_email_sent_if_account_exists",
	})
}

type setPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleSetPassword consumes the emailed token and stores the new
// password. A dead token answers 498 with an empty body.
func (h *ResetPasswordHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	secret := r.PathValue("token")
	if accountID == "" || secret == "" {
		writeError(w, r, domain.ErrTokenInvalidOrExpired())
		return
	}

	var req setPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := validatePassword("password", req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, r, domain.ErrValidation("confirmPassword", "passwords_do_not_match"))
		return
	}

	if err := h.ResetTokens.SetPassword(r.Context(), accountID, secret, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password_updated"})
}
