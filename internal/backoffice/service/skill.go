package service

import (
	"context"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/pkg/idx"
)

type SkillService struct {
	Store store.Store
}

// SkillInput is the create/update payload after HTTP-level validation.
type SkillInput struct {
	Name     string
	Image    string
	Progress int
}

func (s *SkillService) CreateSkill(ctx context.Context, in SkillInput) (domain.Skill, error) {
	now := time.Now().UTC()
	skill := domain.Skill{
		ID:        idx.New().String(),
		Name:      in.Name,
		Image:     in.Image,
		Progress:  in.Progress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Skills().CreateSkill(ctx, skill); err != nil {
		return domain.Skill{}, translateStoreErr(err, "id")
	}
	return skill, nil
}

func (s *SkillService) GetSkill(ctx context.Context, id string) (domain.Skill, error) {
	skill, err := s.Store.Skills().GetSkillByID(ctx, id)
	if err != nil {
		return domain.Skill{}, translateStoreErr(err, "id")
	}
	return skill, nil
}

func (s *SkillService) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return s.Store.Skills().ListSkills(ctx)
}

func (s *SkillService) UpdateSkill(ctx context.Context, id string, in SkillInput) (domain.Skill, error) {
	skill := domain.Skill{
		ID:       id,
		Name:     in.Name,
		Image:    in.Image,
		Progress: in.Progress,
	}
	if err := s.Store.Skills().UpdateSkill(ctx, skill); err != nil {
		return domain.Skill{}, translateStoreErr(err, "id")
	}
	return s.GetSkill(ctx, id)
}

func (s *SkillService) DeleteSkill(ctx context.Context, id string) error {
	if err := s.Store.Skills().DeleteSkill(ctx, id); err != nil {
		return translateStoreErr(err, "id")
	}
	return nil
}
