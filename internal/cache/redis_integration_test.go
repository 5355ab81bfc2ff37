package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/config"
)

// setupRedis starts a Redis container and connects a Cache to it
func setupRedis(t *testing.T) *Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("Redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := New(&config.RedisConfig{Enabled: true, URL: uri})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_ApprovedRoundTrip(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	listings, gen, err := c.GetApproved(ctx)
	require.NoError(t, err)
	assert.Nil(t, listings)
	assert.Equal(t, int64(0), gen)

	want := []models.CommunityListing{
		{ID: "b", Name: "Bay Oaks", Platform: models.PlatformReddit, City: "Austin", Rating: 4.2, Status: models.StatusApproved, CreatedAt: created},
		{ID: "r", Name: "River Park", Platform: models.PlatformFacebook, City: "Austin", MemberCount: 100, Status: models.StatusApproved, CreatedAt: created},
	}
	require.NoError(t, c.SetApproved(ctx, gen, want, time.Minute))

	got, gotGen, err := c.GetApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen, gotGen)
	assert.Equal(t, want, got)

	empty := []models.CommunityListing{}
	require.NoError(t, c.SetApproved(ctx, gen, empty, time.Minute))
	got, _, err = c.GetApproved(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCache_InvalidateDropsStaleSnapshot(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	_, readGen, err := c.GetApproved(ctx)
	require.NoError(t, err)

	// An approval lands between the store read and the cache fill
	require.NoError(t, c.InvalidateApproved(ctx))
	stale := []models.CommunityListing{{ID: "b", Name: "Bay Oaks", Platform: models.PlatformReddit, Status: models.StatusApproved}}
	require.NoError(t, c.SetApproved(ctx, readGen, stale, time.Minute))

	got, gen, err := c.GetApproved(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, readGen+1, gen)
}

func TestCache_UnreadableEntryIsDropped(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, approvedKeyFor(0), "not json", time.Minute))

	_, _, err := c.GetApproved(ctx)
	require.Error(t, err)

	got, _, err := c.GetApproved(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
