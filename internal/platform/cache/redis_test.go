package cache

import (
	"context"
	"testing"
	"time"

	"taskzone/internal/domain/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestCache(t *testing.T) (*UserPageCache, *miniredis.Miniredis, *observer.ObservedLogs) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	core, logs := observer.New(zap.WarnLevel)
	return NewUserPageCache(rdb, time.Minute, zap.New(core)), mr, logs
}

func TestUserPageCache_RoundTrip(t *testing.T) {
	c, _, logs := newTestCache(t)
	ctx := context.Background()

	key, _, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Equal(t, usersPagePrefix+":v0:10:0", key)

	page := []model.PublicUser{{ID: 1, Username: "alice", Email: "alice@x.com"}}
	c.SetPage(ctx, key, page)

	_, got, ok := c.GetPage(ctx, 10, 0)
	require.True(t, ok)
	assert.Equal(t, page, got)

	other, _, ok := c.GetPage(ctx, 10, 10)
	assert.False(t, ok, "pages are keyed by limit and offset")
	assert.NotEqual(t, key, other)
	assert.Zero(t, logs.Len())
}

func TestUserPageCache_EmptyPageIsCached(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	key, _, _ := c.GetPage(ctx, 10, 50)
	c.SetPage(ctx, key, []model.PublicUser{})
	_, got, ok := c.GetPage(ctx, 10, 50)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestUserPageCache_Invalidate(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	key, _, _ := c.GetPage(ctx, 10, 0)
	c.SetPage(ctx, key, []model.PublicUser{{ID: 1, Username: "alice"}})
	c.Invalidate(ctx)

	_, _, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
}

func TestUserPageCache_InvalidateBetweenReadAndStore(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	key, _, ok := c.GetPage(ctx, 10, 0)
	require.False(t, ok)

	// A write lands after the page was read from storage.
	c.Invalidate(ctx)
	c.SetPage(ctx, key, []model.PublicUser{{ID: 1, Username: "alice"}})

	_, _, ok = c.GetPage(ctx, 10, 0)
	assert.False(t, ok, "a page read before the write must not be served after it")
}

func TestUserPageCache_TTL(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	key, _, _ := c.GetPage(ctx, 10, 0)
	c.SetPage(ctx, key, []model.PublicUser{{ID: 1}})
	mr.FastForward(2 * time.Minute)

	_, _, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
}

func TestUserPageCache_FailuresAreMisses(t *testing.T) {
	c, mr, logs := newTestCache(t)
	ctx := context.Background()

	mr.Close()

	key, _, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Empty(t, key)
	c.SetPage(ctx, key, []model.PublicUser{{ID: 1}})
	c.Invalidate(ctx)

	assert.Equal(t, 2, logs.Len())
}

func TestUserPageCache_CorruptEntry(t *testing.T) {
	c, mr, logs := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(usersPagePrefix+":v0:10:0", "not json"))

	_, _, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("user page cache: decode").Len())
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
