// Package store persists user preferences in a small key-value backend.
package store

import (
	"context"
	"fmt"
	"sync"

	"weatherlux/datasource"
)

// KV is the persistence contract of the preference stores. Values are
// opaque JSON documents.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the backend selected by cfg
func Open(cfg datasource.PreferencesConfig) (KV, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryKV(), nil
	case "sqlite":
		return NewSQLiteKV(cfg.Path)
	case "redis":
		return NewRedisKV(cfg.RedisAddr, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown preferences backend %q", cfg.Backend)
	}
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryKV creates a new in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string][]byte),
	}
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryKV) Close() error { return nil }

var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*SQLiteKV)(nil)
	_ KV = (*RedisKV)(nil)
)
