//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("vodir"),
		postgres.WithUsername("vodir"),
		postgres.WithPassword("vodir"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newArtist(username string) *artists.Artist {
	return &artists.Artist{
		FirstName:   "Jane",
		LastName:    username,
		Username:    username,
		Email:       username + "@vo.test",
		Bio:         "bio",
		VoiceGender: artists.GenderFemale,
		Languages:   []string{"English"},
	}
}

func TestStores(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	artistStore := NewArtistStore(db)
	demoStore := NewDemoStore(db)
	languageStore := NewLanguageStore(db)
	userStore := NewUserStore(db)

	t.Run("username is unique ignoring case", func(t *testing.T) {
		require.NoError(t, artistStore.Create(ctx, newArtist("unique")))
		err := artistStore.Create(ctx, newArtist("UNIQUE"))
		assert.ErrorIs(t, err, artists.ErrUsernameTaken)

		a, err := artistStore.GetByUsername(ctx, "Unique")
		require.NoError(t, err)
		assert.Equal(t, "unique", a.Username)
	})

	t.Run("listing only returns approved artists", func(t *testing.T) {
		hidden := newArtist("hidden")
		require.NoError(t, artistStore.Create(ctx, hidden))
		shown := newArtist("shown")
		shown.Approved = true
		require.NoError(t, artistStore.Create(ctx, shown))

		list, err := artistStore.ListApproved(ctx)
		require.NoError(t, err)
		var names []string
		for _, a := range list {
			names = append(names, a.Username)
		}
		assert.Contains(t, names, "shown")
		assert.NotContains(t, names, "hidden")
	})

	t.Run("demo main rule and limit", func(t *testing.T) {
		a := newArtist("demos")
		require.NoError(t, artistStore.Create(ctx, a))

		var created []demos.Demo
		for i := 0; i < demos.MaxPerArtist; i++ {
			d := demos.Demo{ArtistID: a.ID, Name: "demo", URL: "u", StorageKey: "k"}
			require.NoError(t, demoStore.Create(ctx, &d))
			created = append(created, d)
		}
		assert.True(t, created[0].IsMain)
		assert.False(t, created[1].IsMain)

		extra := demos.Demo{ArtistID: a.ID, Name: "fifth", URL: "u", StorageKey: "k"}
		assert.ErrorIs(t, demoStore.Create(ctx, &extra), demos.ErrLimit)

		_, err := demoStore.Delete(ctx, created[0].ID)
		require.NoError(t, err)
		got, err := artistStore.Get(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, got.Demos, 3)
		assert.True(t, got.Demos[0].IsMain, "next demo promoted")

		require.NoError(t, artistStore.Delete(ctx, a.ID))
		left, err := demoStore.ListByArtist(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})

	t.Run("unknown ids read as not found", func(t *testing.T) {
		_, err := artistStore.Get(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, artists.ErrNotFound)
		_, err = demoStore.Get(ctx, "5f0c6a2e-8d4e-4a8e-9a39-3f1f8f5d2c11")
		assert.ErrorIs(t, err, demos.ErrNotFound)
	})

	t.Run("language names are unique ignoring case", func(t *testing.T) {
		l := languages.Language{Name: "Spanish"}
		require.NoError(t, languageStore.Create(ctx, &l))
		assert.ErrorIs(t, languageStore.Create(ctx, &languages.Language{Name: "spanish"}), languages.ErrDuplicate)

		renamed, err := languageStore.Rename(ctx, l.ID, "Castilian")
		require.NoError(t, err)
		assert.Equal(t, "Castilian", renamed.Name)
		require.NoError(t, languageStore.Delete(ctx, l.ID))
		assert.ErrorIs(t, languageStore.Delete(ctx, l.ID), languages.ErrNotFound)
	})

	t.Run("users and admin profiles", func(t *testing.T) {
		hash := "x"
		u := users.User{Email: "Ops@VO.test", PasswordHash: &hash, AuthProvider: users.ProviderLocal}
		require.NoError(t, userStore.Create(ctx, &u, false))
		assert.ErrorIs(t, userStore.Create(ctx, &users.User{Email: "ops@vo.test"}, false), users.ErrEmailTaken)

		found, err := userStore.FindByEmail(ctx, "OPS@vo.test")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		require.NoError(t, userStore.SetAdmin(ctx, u.ID, true))
		p, err := userStore.GetProfile(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, p.IsAdmin)
	})
}
