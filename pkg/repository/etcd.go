package repository

import (
	"context"
	"fmt"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/storage"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdRepository is a storage.KV over etcd. Keys live under the configured
// prefix plus "state/".
type EtcdRepository struct {
	client *clientv3.Client
	prefix string
}

func NewEtcdRepository(cfg *config.EtcdConfig) (*EtcdRepository, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}
	return &EtcdRepository{client: cli, prefix: cfg.Prefix + "state/"}, nil
}

func (e *EtcdRepository) key(k string) string {
	return e.prefix + k
}

func (e *EtcdRepository) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := e.client.Get(ctx, e.key(key))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, storage.ErrNotFound
	}
	return resp.Kvs[0].Value, nil
}

func (e *EtcdRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := e.client.Put(ctx, e.key(key), string(value)); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (e *EtcdRepository) Delete(ctx context.Context, key string) error {
	if _, err := e.client.Delete(ctx, e.key(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (e *EtcdRepository) Close() error {
	return e.client.Close()
}
