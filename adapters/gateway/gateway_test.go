package gateway

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUser(address string, createdAt time.Time) *core.User {
	return &core.User{
		ID:            uuid.New().String(),
		WalletAddress: address,
		Role:          core.RoleUser,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	const addr = "0x742d35Cc6634C0532925a3b8D4C6A7e6e3b5a8d6"

	_, err := repo.GetByWallet(ctx, addr)
	require.ErrorIs(t, err, core.ErrNotFound)

	user := newTestUser(addr, created)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("get by exact address", func(t *testing.T) {
		got, err := repo.GetByWallet(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, core.RoleUser, got.Role)
		assert.False(t, got.IsVerified)
		assert.True(t, created.Equal(got.CreatedAt))
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		_, err := repo.GetByWallet(ctx, "0x742d35cc6634c0532925a3b8d4c6a7e6e3b5a8d6")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("duplicate wallet", func(t *testing.T) {
		err := repo.Create(ctx, newTestUser(addr, created))
		assert.ErrorIs(t, err, core.ErrUserAlreadyExists)
	})

	t.Run("touch", func(t *testing.T) {
		later := created.Add(time.Hour)
		got, err := repo.Touch(ctx, addr, later)
		require.NoError(t, err)
		assert.True(t, later.Equal(got.UpdatedAt))
		assert.True(t, created.Equal(got.CreatedAt))

		_, err = repo.Touch(ctx, "0x0000000000000000000000000000000000000001", later)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("update profile keeps unset fields", func(t *testing.T) {
		ens := "ahmet.eth"
		got, err := repo.UpdateProfile(ctx, addr, core.ProfileUpdate{ENS: &ens}, created.Add(2*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, got.ENS)
		assert.Equal(t, ens, *got.ENS)
		assert.Nil(t, got.Email)

		email := "ahmet@example.com"
		got, err = repo.UpdateProfile(ctx, addr, core.ProfileUpdate{Email: &email}, created.Add(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, ens, *got.ENS)
		assert.Equal(t, email, *got.Email)
	})

	t.Run("list newest first", func(t *testing.T) {
		newer := newTestUser("0x9999999999999999999999999999999999999999", created.Add(24*time.Hour))
		newer.Role = core.RoleAdmin
		require.NoError(t, repo.Create(ctx, newer))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, newer.ID, users[0].ID)
		assert.Equal(t, core.RoleAdmin, users[0].Role)
	})
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	const addr = "0x1111111111111111111111111111111111111111"

	var (
		wg   sync.WaitGroup
		errs = make([]error, 8)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newTestUser(addr, time.Now()))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, core.ErrUserAlreadyExists)
	}
	assert.Equal(t, 1, succeeded)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM user_profiles WHERE wallet_address = ?`, addr))
	assert.Equal(t, 1, n)
}

func TestLiveGateway_Projects(t *testing.T) {
	ctx := context.Background()
	g := NewLiveGateway(setupTestDB(t))
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []core.Project{
		{Name: "DeFi Türkiye", Description: "Yerel DeFi platformu", Category: core.CategoryDeFi, CreatedAt: base},
		{Name: "Istanbul NFT", Description: "Kültürel miras 100% zincirde", Category: core.CategoryNFT, CreatedAt: base.Add(time.Hour)},
		{Name: "Grainz", Description: "Topluluk ajansı", Category: core.CategorySocial, CreatedAt: base.Add(2 * time.Hour)},
	}
	ids := make([]string, len(seed))
	for i := range seed {
		p, err := g.CreateProject(ctx, &seed[i])
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		ids[i] = p.ID
	}

	t.Run("list newest first", func(t *testing.T) {
		got, err := g.ListProjects(ctx, core.ProjectFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Grainz", got[0].Name)
		assert.Equal(t, "DeFi Türkiye", got[2].Name)
	})

	t.Run("filter by category", func(t *testing.T) {
		got, err := g.ListProjects(ctx, core.ProjectFilter{Category: "NFT"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Istanbul NFT", got[0].Name)

		got, err = g.ListProjects(ctx, core.ProjectFilter{Category: core.FilterAll})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		got, err := g.ListProjects(ctx, core.ProjectFilter{Term: "ISTANBUL"})
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = g.ListProjects(ctx, core.ProjectFilter{Term: "defi"})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("search folds non-ascii letters", func(t *testing.T) {
		got, err := g.ListProjects(ctx, core.ProjectFilter{Term: "TÜRK"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "DeFi Türkiye", got[0].Name)

		got, err = g.ListProjects(ctx, core.ProjectFilter{Term: "KÜLTÜREL"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Istanbul NFT", got[0].Name)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		got, err := g.ListProjects(ctx, core.ProjectFilter{Term: "100%"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Istanbul NFT", got[0].Name)

		got, err = g.ListProjects(ctx, core.ProjectFilter{Term: "%"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("get", func(t *testing.T) {
		got, err := g.GetProject(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "DeFi Türkiye", got.Name)

		_, err = g.GetProject(ctx, "missing")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		website := "https://grainz.space"
		got, err := g.UpdateProject(ctx, ids[2], core.ProjectPatch{WebsiteURL: &website})
		require.NoError(t, err)
		assert.Equal(t, website, got.WebsiteURL)
		assert.Equal(t, "Grainz", got.Name)

		_, err = g.UpdateProject(ctx, "missing", core.ProjectPatch{})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := g.CountProjects(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[core.Category]int{core.CategoryDeFi: 1, core.CategoryNFT: 1, core.CategorySocial: 1}, counts)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, g.DeleteProject(ctx, ids[1]))
		assert.ErrorIs(t, g.DeleteProject(ctx, ids[1]), core.ErrNotFound)
	})
}

func TestLiveGateway_People(t *testing.T) {
	ctx := context.Background()
	g := NewLiveGateway(setupTestDB(t))
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	ahmet, err := g.CreatePerson(ctx, &core.Person{
		WalletAddress: "0x742d35Cc6634C0532925a3b8D4C6A7e6e3b5a8d6",
		Name:          "Ahmet Demir",
		Bio:           "Solidity geliştirici",
		Role:          core.PersonDeveloper,
		Location:      "Istanbul",
		SocialLinks:   &core.SocialLinks{X: "https://x.com/ahmet", GitHub: "https://github.com/ahmet"},
		Skills:        []string{"Solidity", "Go"},
		CreatedAt:     base,
	})
	require.NoError(t, err)

	_, err = g.CreatePerson(ctx, &core.Person{
		WalletAddress: "0x9999999999999999999999999999999999999999",
		Name:          "Zeynep Kartal",
		Role:          core.PersonContentCreator,
		Location:      "Izmir",
		CreatedAt:     base.Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("get by wallet decodes json columns", func(t *testing.T) {
		got, err := g.GetPersonByWallet(ctx, ahmet.WalletAddress)
		require.NoError(t, err)
		assert.Equal(t, ahmet.ID, got.ID)
		require.NotNil(t, got.SocialLinks)
		assert.Equal(t, "https://github.com/ahmet", got.SocialLinks.GitHub)
		assert.Equal(t, []string{"Solidity", "Go"}, got.Skills)
		assert.Nil(t, got.UpdatedAt)

		_, err = g.GetPersonByWallet(ctx, "0x0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("list by role and search", func(t *testing.T) {
		got, err := g.ListPeople(ctx, core.PersonFilter{Role: string(core.PersonContentCreator)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Zeynep Kartal", got[0].Name)

		got, err = g.ListPeople(ctx, core.PersonFilter{Term: "istanbul", Role: core.FilterAll})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ahmet Demir", got[0].Name)
	})

	t.Run("update sets updated_at", func(t *testing.T) {
		bio := "Go ve Solidity"
		skills := []string{"Go"}
		got, err := g.UpdatePerson(ctx, ahmet.ID, core.PersonPatch{Bio: &bio, Skills: &skills})
		require.NoError(t, err)
		assert.Equal(t, bio, got.Bio)
		assert.Equal(t, skills, got.Skills)
		assert.NotNil(t, got.UpdatedAt)

		reread, err := g.GetPerson(ctx, ahmet.ID)
		require.NoError(t, err)
		assert.Equal(t, bio, reread.Bio)
		assert.NotNil(t, reread.UpdatedAt)
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := g.CountPeople(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[core.PersonDeveloper])
		assert.Equal(t, 1, counts[core.PersonContentCreator])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, g.DeletePerson(ctx, ahmet.ID))
		_, err := g.GetPerson(ctx, ahmet.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestLiveGateway_PeopleSearchFoldsCase(t *testing.T) {
	ctx := context.Background()
	g := NewLiveGateway(setupTestDB(t))

	elif, err := g.CreatePerson(ctx, &core.Person{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		Name:          "Elif Özkan",
		Role:          core.PersonResearcher,
		Location:      "Ankara",
		Skills:        []string{"Zero Knowledge", "Rust"},
	})
	require.NoError(t, err)

	for _, term := range []string{"ÖZKAN", "özkan", "zero knowledge", "RUST"} {
		got, err := g.ListPeople(ctx, core.PersonFilter{Term: term})
		require.NoError(t, err, term)
		require.Len(t, got, 1, term)
		assert.Equal(t, elif.ID, got[0].ID)
	}

	location := "Çanakkale"
	_, err = g.UpdatePerson(ctx, elif.ID, core.PersonPatch{Location: &location})
	require.NoError(t, err)

	got, err := g.ListPeople(ctx, core.PersonFilter{Term: "ÇANAKKALE"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = g.ListPeople(ctx, core.PersonFilter{Term: "ankara"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUserRepository_ListEmpty(t *testing.T) {
	users, err := NewUserRepository(setupTestDB(t)).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
