package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("connection refused") }
func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (brokenKV) Delete(context.Context, string) error { return errors.New("connection refused") }

func newObserved(kv KV) (*Store, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(kv, "brewBuddy", zap.New(core)), logs
}

func TestStore_Key(t *testing.T) {
	s := New(NewMemory(), "brewBuddy", zap.NewNop())
	assert.Equal(t, "brewBuddy_cart", s.Key("cart"))
	assert.Equal(t, "brewBuddy_cart", s.ForSession("").Key("cart"))
	assert.Equal(t, "brewBuddy_orders:abc", s.ForSession("abc").Key("orders"))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), "brewBuddy", zap.NewNop())

	s.Save(ctx, "favorites", []string{"1", "7"})

	var got []string
	require.True(t, s.Load(ctx, "favorites", &got))
	assert.Equal(t, []string{"1", "7"}, got)
}

func TestStore_LoadMissingKeepsDefault(t *testing.T) {
	s, logs := newObserved(NewMemory())

	got := []string{"default"}
	assert.False(t, s.Load(context.Background(), "favorites", &got))
	assert.Equal(t, []string{"default"}, got)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestStore_LoadCorruptKeepsDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s, logs := newObserved(mem)

	require.NoError(t, mem.Set(ctx, s.Key("favorites"), []byte(`{not json`)))

	got := []string{"default"}
	assert.False(t, s.Load(ctx, "favorites", &got))
	assert.Equal(t, []string{"default"}, got)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestStore_LoadWrongShapeKeepsDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s, _ := newObserved(mem)

	require.NoError(t, mem.Set(ctx, s.Key("favorites"), []byte(`["1", 2, "3"]`)))

	got := []string{"default"}
	assert.False(t, s.Load(ctx, "favorites", &got))
	assert.Equal(t, []string{"default"}, got)
}

func TestStore_BackendFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s, logs := newObserved(brokenKV{})

	got := []string{"default"}
	assert.False(t, s.Load(ctx, "cart", &got))
	assert.Equal(t, []string{"default"}, got)

	assert.NotPanics(t, func() {
		s.Save(ctx, "cart", []string{"x"})
		s.Remove(ctx, "cart")
	})
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	base := New(NewMemory(), "brewBuddy", zap.NewNop())

	base.ForSession("a").Save(ctx, "favorites", []string{"1"})

	var got []string
	assert.False(t, base.ForSession("b").Load(ctx, "favorites", &got))
	assert.True(t, base.ForSession("a").Load(ctx, "favorites", &got))
	assert.Equal(t, []string{"1"}, got)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte("v1")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
	assert.Equal(t, []string{"k"}, m.Keys())

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
