package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/fixture"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/gateway"
	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

func newLiveSource(t *testing.T) ports.DataSource {
	t.Helper()
	db, err := gateway.Open(context.Background(), gateway.DriverSQLite, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return gateway.NewLiveGateway(db)
}

// newBrokenSource returns a live gateway whose database is already closed.
func newBrokenSource(t *testing.T) ports.DataSource {
	t.Helper()
	db, err := gateway.Open(context.Background(), gateway.DriverSQLite, filepath.Join(t.TempDir(), "broken.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return gateway.NewLiveGateway(db)
}

func TestDirectoryService_FixtureReads(t *testing.T) {
	ctx := context.Background()
	svc := NewDirectoryService(fixture.New(time.Now()), zap.NewNop().Sugar())

	defi := svc.ListProjects(ctx, "DeFi")
	require.Len(t, defi, 1)
	assert.Equal(t, core.CategoryDeFi, defi[0].Category)
	assert.Len(t, svc.ListProjects(ctx, core.FilterAll), 3)

	people := svc.SearchPeople(ctx, "istanbul", core.FilterAll)
	require.Len(t, people, 1)
	assert.Equal(t, "Istanbul", people[0].Location)

	assert.NotNil(t, svc.GetProject(ctx, "1"))
	assert.Nil(t, svc.GetProject(ctx, "missing"))
	assert.NotNil(t, svc.GetPersonByWallet(ctx, "0x742d35Cc6634C0532925a3b8D4C6A7e6e3b5a8d6"))
	assert.Nil(t, svc.GetPerson(ctx, "missing"))
}

func TestDirectoryService_Stats(t *testing.T) {
	ctx := context.Background()
	svc := NewDirectoryService(fixture.New(time.Now()), zap.NewNop().Sugar())

	assert.Equal(t, core.Stats{
		TotalProjects:  3,
		TotalPeople:    4,
		TotalBuilders:  1,
		TotalCreators:  1,
		TotalInvestors: 1,
		TotalDegens:    1,
	}, svc.Stats(ctx))

	byCategory := svc.ProjectsByCategory(ctx)
	assert.Equal(t, 3, byCategory.Total)
	require.Len(t, byCategory.Shares, len(core.Categories))
	assert.Equal(t, "DeFi", byCategory.Shares[0].Key)
	assert.True(t, decimal.RequireFromString("33.33").Equal(byCategory.Shares[0].Percent))

	byRole := svc.PeopleByRole(ctx)
	assert.Equal(t, 4, byRole.Total)
	assert.True(t, decimal.NewFromInt(25).Equal(byRole.Shares[0].Percent))
}

func TestDirectoryService_ReadsNeverFail(t *testing.T) {
	ctx := context.Background()
	svc := NewDirectoryService(newBrokenSource(t), zap.NewNop().Sugar())

	assert.Empty(t, svc.ListProjects(ctx, ""))
	assert.NotNil(t, svc.ListProjects(ctx, ""))
	assert.Empty(t, svc.SearchPeople(ctx, "x", ""))
	assert.Nil(t, svc.GetProject(ctx, "1"))
	assert.Equal(t, core.Stats{}, svc.Stats(ctx))
	assert.Equal(t, 0, svc.PeopleByRole(ctx).Total)

	_, err := svc.CreateProject(ctx, core.Project{Name: "P", Category: core.CategoryDeFi})
	assert.Error(t, err)
}

func TestDirectoryService_LiveWrites(t *testing.T) {
	ctx := context.Background()
	svc := NewDirectoryService(newLiveSource(t), zap.NewNop().Sugar())

	_, err := svc.CreateProject(ctx, core.Project{Name: " ", Category: core.CategoryDeFi})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = svc.CreateProject(ctx, core.Project{Name: "X", Category: "Casino"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	project, err := svc.CreateProject(ctx, core.Project{Name: "Anadolu DAO", Description: "governance", Category: core.CategoryInfrastructure})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)

	name := "Anadolu DAO v2"
	updated, err := svc.UpdateProject(ctx, project.ID, core.ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "governance", updated.Description)

	assert.Len(t, svc.SearchProjects(ctx, "ANADOLU", ""), 1)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))
	assert.ErrorIs(t, svc.DeleteProject(ctx, project.ID), core.ErrNotFound)
	assert.Nil(t, svc.GetProject(ctx, project.ID))
}

func TestDirectoryService_CreateProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewDirectoryService(newLiveSource(t), zap.NewNop().Sugar())
	const wallet = "0x1111111111111111111111111111111111111111"

	person := core.Person{WalletAddress: wallet, Name: "Elif", Role: core.PersonDesigner, Location: "Ankara", Skills: []string{"Figma"}}
	created, err := svc.CreateProfile(ctx, person)
	require.NoError(t, err)
	assert.Equal(t, wallet, created.WalletAddress)

	_, err = svc.CreateProfile(ctx, person)
	assert.ErrorIs(t, err, core.ErrProfileExists)

	_, err = svc.CreateProfile(ctx, core.Person{WalletAddress: "0x2", Name: "Can", Role: "wizard"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	bio := "Product designer"
	updated, err := svc.UpdatePerson(ctx, created.ID, core.PersonPatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, []string{"Figma"}, updated.Skills)

	assert.Equal(t, created.ID, svc.GetPersonByWallet(ctx, wallet).ID)
	require.NoError(t, svc.DeletePerson(ctx, created.ID))
	assert.Nil(t, svc.GetPersonByWallet(ctx, wallet))
}
