package storage

import (
	"context"
	"fmt"
	"testing"

	"geomarket/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.ConnectDatabase(database.DriverSQLite, dsn, zap.NewNop())
	require.NoError(t, err)
	gormStore, err := NewGormStore(db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"gorm":   gormStore,
		"redis":  NewRedisStore(client, "test"),
	}
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, UsersKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, UsersKey, []byte(`[1]`)))
			got, err := store.Get(ctx, UsersKey)
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, store.Set(ctx, UsersKey, []byte(`[1,2]`)))
			got, err = store.Get(ctx, UsersKey)
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, store.Delete(ctx, UsersKey))
			_, err = store.Get(ctx, UsersKey)
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting twice is fine
			assert.NoError(t, store.Delete(ctx, UsersKey))
		})
	}
}

func TestStores_RejectEmptyKey(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, " ")
			assert.ErrorIs(t, err, ErrEmptyKey)
			assert.ErrorIs(t, store.Set(ctx, "", nil), ErrEmptyKey)
			assert.ErrorIs(t, store.Delete(ctx, ""), ErrEmptyKey)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisStore_NamespacesKeys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "geomarket")
	require.NoError(t, store.Set(ctx, MessagesKey, []byte("{}")))

	assert.True(t, mr.Exists("geomarket:"+MessagesKey))
	assert.False(t, mr.Exists(MessagesKey))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{Driver: DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, Options{Driver: DriverFile, DataDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	mr := miniredis.RunT(t)
	store, err = Open(ctx, Options{Driver: DriverRedis, RedisURL: "redis://" + mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)

	_, err = Open(ctx, Options{Driver: "etcd"}, zap.NewNop())
	assert.Error(t, err)
}
