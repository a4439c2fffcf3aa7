package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	kvredis "github.com/MrJamesThe3rd/cabinetdoc/internal/kv/redis"
)

func newStore(t *testing.T) (*kvredis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb, err := kvredis.Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return kvredis.New(rdb, "cabinetdoc:"), mr
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Set(ctx, "documents", []byte(`[]`)))

	raw, err := mr.Get("cabinetdoc:documents")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)

	got, err := s.Get(ctx, "documents")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "documents"))

	_, err = s.Get(ctx, "documents")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_KeysOnlyWithinPrefix(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, mr.Set("other:thing", "x"))
	require.NoError(t, s.Set(ctx, "documents", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "clients", []byte(`[]`)))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"clients", "documents"}, keys)
}
