// Package storage is the persistence adapter behind carts, favorites, order
// history and preferences. Reads fall back to the caller's default on any
// failure and writes are best-effort; neither ever returns an error to the
// engine.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ErrNotFound is returned by a KV when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// DefaultSession is the session id whose keys carry no suffix.
const DefaultSession = "default"

// KV is a namespaced byte store. Implementations live in pkg/repository and
// in this package (Memory).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	kv        KV
	namespace string
	session   string
	logger    *zap.Logger
}

func New(kv KV, namespace string, logger *zap.Logger) *Store {
	return &Store{
		kv:        kv,
		namespace: namespace,
		session:   DefaultSession,
		logger:    logger.Named("storage"),
	}
}

// ForSession returns a store sharing the backend whose keys are scoped to the
// given session.
func (s *Store) ForSession(sessionID string) *Store {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	return &Store{
		kv:        s.kv,
		namespace: s.namespace,
		session:   sessionID,
		logger:    s.logger.With(zap.String("session", sessionID)),
	}
}

func (s *Store) Session() string {
	return s.session
}

// Key maps a logical name such as "cart" to the backend key.
func (s *Store) Key(name string) string {
	key := fmt.Sprintf("%s_%s", s.namespace, name)
	if s.session != DefaultSession {
		key += ":" + s.session
	}
	return key
}

// Load decodes the value stored under name into dest. When the value is
// missing or cannot be decoded, dest is left untouched and false is returned.
func (s *Store) Load(ctx context.Context, name string, dest any) bool {
	key := s.Key(name)

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("No stored value, using default", zap.String("key", key))
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to read stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}

	// decode into a fresh value so a partial decode never leaks into dest
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		s.logger.Error("Load destination must be a non-nil pointer", zap.String("key", key))
		return false
	}
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		s.logger.Warn("Failed to decode stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	target.Elem().Set(fresh.Elem())
	return true
}

// Save encodes v and writes it under name. Failures are logged and dropped.
func (s *Store) Save(ctx context.Context, name string, v any) {
	key := s.Key(name)

	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.Error("Failed to write value", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes the value under name, best-effort.
func (s *Store) Remove(ctx context.Context, name string) {
	key := s.Key(name)
	if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("Failed to delete value", zap.String("key", key), zap.Error(err))
	}
}
