package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkillCRUD(t *testing.T) {
	ctx := context.Background()
	svc := &SkillService{Store: newTestStore(t)}

	created, err := svc.CreateSkill(ctx, SkillInput{Name: "Go", Image: "go.svg", Progress: 80})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Go", created.Name)

	got, err := svc.GetSkill(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	updated, err := svc.UpdateSkill(ctx, created.ID, SkillInput{Name: "Go", Image: "gopher.svg", Progress: 90})
	require.NoError(t, err)
	require.Equal(t, "gopher.svg", updated.Image)
	require.Equal(t, 90, updated.Progress)

	list, err := svc.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteSkill(ctx, created.ID))

	list, err = svc.ListSkills(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSkillNotFound(t *testing.T) {
	ctx := context.Background()
	svc := &SkillService{Store: newTestStore(t)}

	_, err := svc.GetSkill(ctx, "missing")
	requireDomainErr(t, err, http.StatusNotFound, "id")

	_, err = svc.UpdateSkill(ctx, "missing", SkillInput{Name: "Go"})
	requireDomainErr(t, err, http.StatusNotFound, "id")

	err = svc.DeleteSkill(ctx, "missing")
	requireDomainErr(t, err, http.StatusNotFound, "id")
}
