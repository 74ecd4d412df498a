package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"leadgen/internal/leads/app"
	"leadgen/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func setQuery(q string) func(*app.Snapshot) error {
	return func(s *app.Snapshot) error {
		s.State = app.Reduce(s.State, app.SetQuery{Query: q})
		return nil
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	fresh, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, app.InitialState().Location, fresh.State.Location)

	_, err = store.Update(ctx, "s1", setQuery("Bakery"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.State.Query)

	other, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.State.Query)
}

func TestMemoryStore_FailedUpdateIsDiscarded(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", setQuery("Bakery"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.Update(ctx, "s1", func(s *app.Snapshot) error {
		s.State.Query = "Pharmacy"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := store.Get(ctx, "s1")
	assert.Equal(t, "Bakery", got.State.Query)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", setQuery("Bakery"))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())

	got, _ := store.Get(ctx, "s1")
	assert.Empty(t, got.State.Query)
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	records := make([]models.Business, 50)
	for i := range records {
		records[i] = models.Business{ID: fmt.Sprintf("biz-%d", i), Name: fmt.Sprintf("Shop %d", i)}
	}
	_, err := store.Update(ctx, "s1", func(s *app.Snapshot) error {
		s.State = app.Reduce(s.State, app.SearchSucceeded{Records: records})
		return nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, "s1", func(s *app.Snapshot) error {
				s.State = app.Reduce(s.State, app.ToggleSelection{ID: fmt.Sprintf("biz-%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(ctx, "s1")
	assert.Len(t, got.State.Selected, 50)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	snap, err := store.Update(ctx, "s1", setQuery("Bakery"))
	require.NoError(t, err)
	assert.Equal(t, "Bakery", snap.State.Query)
	assert.True(t, mr.Exists("session:s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.State.Query)
	assert.Equal(t, snap.Map.Phase, got.Map.Phase)

	mr.FastForward(2 * time.Hour)
	expired, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, expired.State.Query)
}

func TestRedisStore_FailedUpdateIsDiscarded(t *testing.T) {
	_, rdb := setupRedis(t)
	store := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", setQuery("Bakery"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.Update(ctx, "s1", func(s *app.Snapshot) error { return boom })
	assert.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.State.Query)
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("session:s1").SetErr(errors.New("connection refused"))

	store := NewRedisStore(db, time.Hour)
	_, err := store.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
