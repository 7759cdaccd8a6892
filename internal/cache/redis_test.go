package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	var missing payload
	found, err := GetJSON(ctx, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "present", payload{Name: "idée", Count: 3}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "present", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "idée", Count: 3}, got)
}

func TestAside(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fraiche", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)

	// Second read is served from the cache; fetch does not run again.
	var second payload
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	Invalidate(ctx, "k")
	var third payload
	require.NoError(t, Aside(ctx, "k", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var dest payload
	err := Aside(ctx, "k", &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	found, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found, "failed fetches must not be cached")
}

func TestNilClientIsPassthrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "x"}, time.Minute))
	var dest payload
	found, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	calls := 0
	require.NoError(t, Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = payload{Name: "directe"}
		return nil
	}))
	assert.Equal(t, 1, calls, "without redis every read goes to the fetcher")
	assert.Equal(t, "directe", dest.Name)

	// Invalidation helpers must not panic either.
	Invalidate(ctx, "k")
	InvalidateUser(ctx, 1)
	InvalidateIdeaFeed(ctx)
}

func TestInvalidateUser_DropsStatsToo(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(7), payload{Name: "u"}, time.Minute))
	require.NoError(t, SetJSON(ctx, UserStatsKey, payload{Count: 9}, time.Minute))

	InvalidateUser(ctx, 7)
	assert.False(t, mr.Exists(UserKey(7)))
	assert.False(t, mr.Exists(UserStatsKey))
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "user:42", UserKey(42))
	assert.Equal(t, "blacklist:abc", BlacklistKey("abc"))
}
