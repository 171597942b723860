package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/fixture"
	"github.com/gokmency/web3turkiyetoplulugu/core"
)

func TestFallbackSource_BrokenLiveServesFixtures(t *testing.T) {
	ctx := context.Background()
	src := NewFallbackSource(newBrokenSource(t), fixture.New(time.Now()), zap.NewNop().Sugar())

	projects, err := src.ListProjects(ctx, core.ProjectFilter{Category: "DeFi"})
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	people, err := src.ListPeople(ctx, core.PersonFilter{Term: "istanbul", Role: core.FilterAll})
	require.NoError(t, err)
	assert.Len(t, people, 1)

	person, err := src.GetPerson(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Demir", person.Name)

	counts, err := src.CountPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[core.PersonInvestor])

	created, err := src.CreateProject(ctx, &core.Project{Name: "Demo", Category: core.CategoryOther})
	require.NoError(t, err)
	assert.Contains(t, created.ID, "project-")

	_, err = src.UpdatePerson(ctx, "1", core.PersonPatch{})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, src.DeleteProject(ctx, "1"), core.ErrReadOnly)
}

func TestFallbackSource_HealthyLiveWins(t *testing.T) {
	ctx := context.Background()
	src := NewFallbackSource(newLiveSource(t), fixture.New(time.Now()), zap.NewNop().Sugar())

	projects, err := src.ListProjects(ctx, core.ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = src.GetProject(ctx, "1")
	assert.ErrorIs(t, err, core.ErrNotFound, "not found is not a failure")

	assert.ErrorIs(t, src.DeletePerson(ctx, "1"), core.ErrNotFound)
}

func TestSelectDataSource(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop().Sugar()

	ds, err := SelectDataSource(ctx, ModeAuto, "", "", log)
	require.NoError(t, err)
	assert.Equal(t, ModeFixture, ds.Mode)
	_, err = ds.Users.GetByWallet(ctx, "0xabc")
	assert.ErrorIs(t, err, core.ErrGatewayUnavailable)
	assert.NoError(t, ds.Close())

	_, err = SelectDataSource(ctx, ModeLive, "", "", log)
	assert.ErrorIs(t, err, core.ErrGatewayUnavailable)

	_, err = SelectDataSource(ctx, "remote", "", "", log)
	assert.Error(t, err)

	dsn := t.TempDir() + "/live.db"
	ds, err = SelectDataSource(ctx, ModeFallback, "sqlite", dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	assert.IsType(t, &FallbackSource{}, ds.Directory)
	assert.NotNil(t, ds.Users)
}
