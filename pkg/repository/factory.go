// Package repository holds the storage backends and the order side-effect
// sinks (redis cache, mongo audit log, mysql archive).
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/storage"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendEtcd   = "etcd"
)

// NewKV opens the key/value backend named by cfg.Storage.Backend. The
// returned close function releases its connection.
func NewKV(cfg *config.Config) (storage.KV, func() error, error) {
	switch cfg.Storage.Backend {
	case BackendMemory, "":
		return storage.NewMemory(), func() error { return nil }, nil

	case BackendRedis:
		repo := NewRedisRepository(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return repo, repo.Close, nil

	case BackendEtcd:
		repo, err := NewEtcdRepository(&cfg.Etcd)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
