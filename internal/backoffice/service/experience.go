package service

import (
	"context"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/pkg/idx"
)

type ExperienceService struct {
	Store store.Store
}

// ExperienceInput is the create/update payload after HTTP-level
// validation.
type ExperienceInput struct {
	Position     string
	Company      string
	City         string
	Country      string
	From         time.Time
	To           *time.Time
	Tasks        string
	Technologies []string
}

func (s *ExperienceService) CreateExperience(ctx context.Context, in ExperienceInput) (domain.Experience, error) {
	now := time.Now().UTC()
	exp := domain.Experience{
		ID:           idx.New().String(),
		Position:     in.Position,
		Company:      in.Company,
		City:         in.City,
		Country:      in.Country,
		From:         in.From,
		To:           in.To,
		Tasks:        in.Tasks,
		Technologies: in.Technologies,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Experiences().CreateExperience(ctx, exp); err != nil {
		return domain.Experience{}, translateStoreErr(err, "id")
	}
	return exp, nil
}

func (s *ExperienceService) GetExperience(ctx context.Context, id string) (domain.Experience, error) {
	exp, err := s.Store.Experiences().GetExperienceByID(ctx, id)
	if err != nil {
		return domain.Experience{}, translateStoreErr(err, "id")
	}
	return exp, nil
}

func (s *ExperienceService) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	return s.Store.Experiences().ListExperiences(ctx)
}

func (s *ExperienceService) UpdateExperience(ctx context.Context, id string, in ExperienceInput) (domain.Experience, error) {
	exp := domain.Experience{
		ID:           id,
		Position:     in.Position,
		Company:      in.Company,
		City:         in.City,
		Country:      in.Country,
		From:         in.From,
		To:           in.To,
		Tasks:        in.Tasks,
		Technologies: in.Technologies,
	}
	if err := s.Store.Experiences().UpdateExperience(ctx, exp); err != nil {
		return domain.Experience{}, translateStoreErr(err, "id")
	}
	return s.GetExperience(ctx, id)
}

func (s *ExperienceService) DeleteExperience(ctx context.Context, id string) error {
	if err := s.Store.Experiences().DeleteExperience(ctx, id); err != nil {
		return translateStoreErr(err, "id")
	}
	return nil
}
