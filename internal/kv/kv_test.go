package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
)

func TestMemory_JSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	var got []string
	assert.ErrorIs(t, kv.GetJSON(ctx, s, "names", &got), kv.ErrNotFound)

	require.NoError(t, kv.SetJSON(ctx, s, "names", []string{"a", "b"}))
	require.NoError(t, kv.GetJSON(ctx, s, "names", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"names"}, keys)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	require.NoError(t, s.Set(ctx, "k", []byte(`"v"`)))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[1] = 'x'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(again))
}

func TestGetJSON_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	require.NoError(t, s.Set(ctx, "k", []byte(`{`)))

	var v map[string]any
	err := kv.GetJSON(ctx, s, "k", &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}
