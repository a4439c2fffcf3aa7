package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv/file"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "store.json")

	s, err := file.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "documents", []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.Set(ctx, "clients", []byte(`[]`)))
	require.NoError(t, s.Delete(ctx, "clients"))
	require.NoError(t, s.Close())

	reopened, err := file.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "documents")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	_, err = reopened.Get(ctx, "clients")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"documents"}, keys)
}

func TestStore_ShrinkingValueTruncatesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := file.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "k", []byte(`"a long value that will be replaced"`)))
	require.NoError(t, s.Set(ctx, "k", []byte(`"x"`)))
	require.NoError(t, s.Close())

	reopened, err := file.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	s, err := file.Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.Set(context.Background(), "k", []byte("{")))
}

func TestStore_FailedFlushKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()

	s, err := file.Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "documents", []byte(`["old"]`)))
	require.NoError(t, s.Close())

	assert.Error(t, s.Set(ctx, "documents", []byte(`["new"]`)))
	assert.Error(t, s.Set(ctx, "clients", []byte(`[]`)))
	assert.Error(t, s.Delete(ctx, "documents"))

	got, err := s.Get(ctx, "documents")
	require.NoError(t, err)
	assert.JSONEq(t, `["old"]`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"documents"}, keys)
}
