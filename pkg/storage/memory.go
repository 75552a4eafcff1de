package storage

import (
	"context"

	cmap "github.com/orcaman/concurrent-map"
)

// Memory is an in-process KV, used for tests and single-node deployments.
type Memory struct {
	m cmap.ConcurrentMap
}

func NewMemory() *Memory {
	return &Memory{m: cmap.New()}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.m.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	data := v.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	data := make([]byte, len(value))
	copy(data, value)
	m.m.Set(key, data)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.m.Remove(key)
	return nil
}

func (m *Memory) Keys() []string {
	return m.m.Keys()
}
