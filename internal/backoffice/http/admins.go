package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
)

type AdminsHandler struct {
	Admins *service.AdminService
}

type createAdminRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// HandleCreate creates an admin. The requested role passes through
// grant coercion against the caller's own role.
func (h *AdminsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := elevatedIdentity(r)

	var req createAdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := requireNonEmpty(map[string]string{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
		"email":     req.Email,
		"password":  req.Password,
	}, "firstname", "lastname", "email", "password"); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateEmail("email", req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validatePassword("password", req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	role := domain.DefaultRole
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			writeError(w, r, domain.ErrValidation("role", "invalid_role"))
			return
		}
		role = parsed
	}

	admin, err := h.Admins.CreateAdmin(r.Context(), domain.Role(actor.Role), service.NewAdminInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Nickname:  req.Nickname,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, admin)
}

func (h *AdminsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	admin, err := h.Admins.GetAdmin(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admin)
}

func (h *AdminsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Admins.ListAdmins(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, admins)
}

type updateProfileRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Nickname  string `json:"nickname"`
}

// HandleUpdateMe mutates the caller's own name fields.
func (h *AdminsHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	acct := elevatedIdentity(r)

	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := requireNonEmpty(map[string]string{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
	}, "firstname", "lastname"); err != nil {
		writeError(w, r, err)
		return
	}

	admin, err := h.Admins.UpdateProfile(r.Context(), acct.ID, req.Firstname, req.Lastname, req.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admin)
}

type changeEmailRequest struct {
	Email string `json:"email"`
}

// HandleChangeEmail swaps the caller's login email. The old address
// gets a change notice. The access snapshot goes stale until renewal.
func (h *AdminsHandler) HandleChangeEmail(w http.ResponseWriter, r *http.Request) {
	acct := elevatedIdentity(r)

	var req changeEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := validateEmail("email", req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	admin, err := h.Admins.ChangeEmail(r.Context(), acct.ID, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admin)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleChangePassword verifies the current password before accepting
// the new one.
func (h *AdminsHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	acct := elevatedIdentity(r)

	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if req.CurrentPassword == "" {
		writeError(w, r, domain.ErrValidation("currentPassword", "required"))
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

	if err := h.Admins.ChangePassword(r.Context(), acct.ID, req.CurrentPassword, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password_updated"})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// HandleChangeRole sets another admin's role. Topmost clearance
// enforced by the route chain; coercion still applies for safety.
func (h *AdminsHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	actor := elevatedIdentity(r)

	var req changeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		writeError(w, r, domain.ErrValidation("role", "invalid_role"))
		return
	}

	admin, err := h.Admins.ChangeRole(r.Context(), domain.Role(actor.Role), r.PathValue("id"), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admin)
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// HandleSetActive disables or re-enables an account.
func (h *AdminsHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}

	admin, err := h.Admins.SetActive(r.Context(), r.PathValue("id"), req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admin)
}

func (h *AdminsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Admins.DeleteAdmin(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
