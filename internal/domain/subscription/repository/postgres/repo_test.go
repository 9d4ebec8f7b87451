package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
	suberrors "github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/errors"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	// An in-memory sqlite database exists per connection, so the pool
	// must stay on a single one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.Subscription{}))

	return db, &Repository{db: db}
}

func newSub(subscriptionID string, expires time.Time) *entities.Subscription {
	postURL := "https://cb/x"
	return &entities.Subscription{
		Domain:         "example.com",
		Model:          "call",
		Expires:        expires,
		SubscriptionID: subscriptionID,
		PostURL:        &postURL,
	}
}

func TestRepository_Create_DuplicateIdentifier(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, newSub("sub-1", expires)))

	err := repo.Create(ctx, newSub("sub-1", expires))
	assert.ErrorIs(t, err, suberrors.ErrAlreadyExists)
}

func TestRepository_Delete_SecondCallFailsCleanly(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSub("sub-1", time.Now().UTC().Add(time.Hour))))

	require.NoError(t, repo.Delete(ctx, "sub-1"))

	err := repo.Delete(ctx, "sub-1")
	assert.ErrorIs(t, err, suberrors.ErrNotFound)
}

func TestRepository_GetBySubscriptionID(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, newSub("sub-1", expires)))

	sub, err := repo.GetBySubscriptionID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", sub.Domain)
	assert.Equal(t, "call", sub.Model)
	assert.Nil(t, sub.LastUpdated)

	_, err = repo.GetBySubscriptionID(ctx, "missing")
	assert.ErrorIs(t, err, suberrors.ErrNotFound)
}

func TestRepository_GetExpiring_ClosedInterval(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	threshold := time.Now().UTC().Add(2 * time.Minute).Truncate(time.Second)

	require.NoError(t, repo.Create(ctx, newSub("before", threshold.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, newSub("exact", threshold)))
	require.NoError(t, repo.Create(ctx, newSub("after", threshold.Add(time.Second))))

	expiring, err := repo.GetExpiring(ctx, threshold)
	require.NoError(t, err)

	ids := make([]string, len(expiring))
	for i, sub := range expiring {
		ids[i] = sub.SubscriptionID
	}
	assert.ElementsMatch(t, []string{"before", "exact"}, ids)
}

func TestRepository_GetExpiring_Empty(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSub("sub-1", time.Now().UTC().Add(time.Hour))))

	expiring, err := repo.GetExpiring(ctx, time.Now().UTC().Add(10*time.Second))
	require.NoError(t, err)
	assert.Empty(t, expiring)
}

func TestRepository_UpdateRenewal_RewritesIdentifier(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSub("old-id", time.Now().UTC().Add(time.Minute))))

	newExpires := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	lastUpdated := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateRenewal(ctx, "old-id", "new-id", newExpires, lastUpdated))

	_, err := repo.GetBySubscriptionID(ctx, "old-id")
	assert.ErrorIs(t, err, suberrors.ErrNotFound)

	sub, err := repo.GetBySubscriptionID(ctx, "new-id")
	require.NoError(t, err)
	assert.WithinDuration(t, newExpires, sub.Expires, time.Second)
	require.NotNil(t, sub.LastUpdated)
	assert.WithinDuration(t, lastUpdated, *sub.LastUpdated, time.Second)
}

func TestRepository_UpdateRenewal_UnknownIdentifier(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	err := repo.UpdateRenewal(ctx, "missing", "new-id", time.Now().UTC(), time.Now().UTC())
	assert.ErrorIs(t, err, suberrors.ErrNotFound)
}

func TestRepository_Ping(t *testing.T) {
	db, repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	require.NoError(t, db.Migrator().DropTable(&entities.Subscription{}))
	assert.ErrorIs(t, repo.Ping(ctx), suberrors.ErrConfiguration)
}
