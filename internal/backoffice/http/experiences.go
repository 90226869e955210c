package http

import (
	"net/http"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
)

type ExperiencesHandler struct {
	Experiences *service.ExperienceService
}

type experienceRequest struct {
	Position     string     `json:"position"`
	Company      string     `json:"company"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Tasks        string     `json:"tasks"`
	Technologies []string   `json:"technologies"`
}

func (req *experienceRequest) validate() *domain.Error {
	if err := requireNonEmpty(map[string]string{
		"position": req.Position,
		"company":  req.Company,
	}, "position", "company"); err != nil {
		return err
	}
	if req.From.IsZero() {
		return domain.ErrValidation("from", "required")
	}
	if req.To != nil && req.To.Before(req.From) {
		return domain.ErrValidation("to", "before_from")
	}
	return nil
}

func (req *experienceRequest) input() service.ExperienceInput {
	return service.ExperienceInput{
		Position:     req.Position,
		Company:      req.Company,
		City:         req.City,
		Country:      req.Country,
		From:         req.From,
		To:           req.To,
		Tasks:        req.Tasks,
		Technologies: req.Technologies,
	}
}

func (h *ExperiencesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := h.Experiences.CreateExperience(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, exp)
}

func (h *ExperiencesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Experiences.GetExperience(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, exp)
}

func (h *ExperiencesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	exps, err := h.Experiences.ListExperiences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, exps)
}

func (h *ExperiencesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.ErrValidation("global", "malformed_body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := h.Experiences.UpdateExperience(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, exp)
}

func (h *ExperiencesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Experiences.DeleteExperience(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
