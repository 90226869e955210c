package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExperienceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := &ExperienceService{Store: newTestStore(t)}

	from := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateExperience(ctx, ExperienceInput{
		Position:     "Backend Engineer",
		Company:      "Acme",
		City:         "Berlin",
		Country:      "Germany",
		From:         from,
		To:           &to,
		Tasks:        "Built the billing pipeline.",
		Technologies: []string{"Go", "SQLite"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, []string{"Go", "SQLite"}, created.Technologies)

	got, err := svc.GetExperience(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Company)
	require.Equal(t, []string{"Go", "SQLite"}, got.Technologies)
	require.NotNil(t, got.To)
	require.True(t, got.To.Equal(to))

	// Dropping To marks the position as current.
	updated, err := svc.UpdateExperience(ctx, created.ID, ExperienceInput{
		Position:     "Staff Engineer",
		Company:      "Acme",
		City:         "Berlin",
		Country:      "Germany",
		From:         from,
		Tasks:        "Owns the platform team.",
		Technologies: nil,
	})
	require.NoError(t, err)
	require.Equal(t, "Staff Engineer", updated.Position)
	require.Nil(t, updated.To)
	require.Empty(t, updated.Technologies)

	list, err := svc.ListExperiences(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteExperience(ctx, created.ID))

	list, err = svc.ListExperiences(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestExperienceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := &ExperienceService{Store: newTestStore(t)}

	_, err := svc.GetExperience(ctx, "missing")
	requireDomainErr(t, err, http.StatusNotFound, "id")

	_, err = svc.UpdateExperience(ctx, "missing", ExperienceInput{Position: "x", Company: "y", From: time.Now()})
	requireDomainErr(t, err, http.StatusNotFound, "id")

	err = svc.DeleteExperience(ctx, "missing")
	requireDomainErr(t, err, http.StatusNotFound, "id")
}
