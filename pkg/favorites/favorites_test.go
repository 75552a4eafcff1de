package favorites

import (
	"context"
	"testing"

	"github.com/example/brewbuddy/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemory(), "brewBuddy", zap.NewNop())
	f := New(ctx, store)

	assert.Equal(t, 0, f.Count())
	assert.NotNil(t, f.List())

	assert.True(t, f.Toggle(ctx, "2"))
	f.Add(ctx, "7")
	f.Add(ctx, "7")
	assert.Equal(t, []string{"2", "7"}, f.List())
	assert.True(t, f.Contains("7"))

	assert.False(t, f.Toggle(ctx, "2"))
	assert.False(t, f.Contains("2"))
	f.Remove(ctx, "missing")
	assert.Equal(t, 1, f.Count())

	restored := New(ctx, store)
	assert.Equal(t, []string{"7"}, restored.List())
}

func TestFavorites_CorruptValueStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := storage.New(mem, "brewBuddy", zap.NewNop())
	require.NoError(t, mem.Set(ctx, store.Key(StorageKey), []byte(`"not a list"`)))

	assert.Empty(t, New(ctx, store).List())
}
