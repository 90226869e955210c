package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
)

type SkillsHandler struct {
	Skills *service.SkillService
}

type skillRequest struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Progress int    `json:"progress"`
}

func (req *skillRequest) validate() *domain.Error {
	if err := requireNonEmpty(map[string]string{"name": req.Name}, "name"); err != nil {
		return err
	}
	if req.Progress < 0 || req.Progress > 100 {
		return domain.ErrValidation("progress", "out_of_range")
	}
	return nil
}

func (h *SkillsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	skill, err := h.Skills.CreateSkill(r.Context(), service.SkillInput{
		Name:     req.Name,
		Image:    req.Image,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, skill)
}

func (h *SkillsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	skill, err := h.Skills.GetSkill(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, skill)
}

func (h *SkillsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Skills.ListSkills(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, skills)
}

func (h *SkillsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	skill, err := h.Skills.UpdateSkill(r.Context(), r.PathValue("id"), service.SkillInput{
		Name:     req.Name,
		Image:    req.Image,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, skill)
}

func (h *SkillsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Skills.DeleteSkill(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
