package storage

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrQuotaExceeded indicates a write rejected for lack of space.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Slot is a text key-value store holding persisted state by key.
// A missing key is reported through found, never as an error.
type Slot interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Log interface {
	Debug(string, ...zap.Field)
}

// MemoryStorage represents an in-memory slot store with locking mechanisms
type MemoryStorage struct {
	mx     sync.RWMutex
	values map[string]string

	quota int
	log   Log
}

type Option func(*MemoryStorage)

// WithQuota limits the total size of keys and values in bytes; Set fails
// with ErrQuotaExceeded once a write would cross it. Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *MemoryStorage) {
		s.quota = bytes
	}
}

// NewMemoryStorage creates a new MemoryStorage instance
func NewMemoryStorage(log Log, opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		values: make(map[string]string),
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	if s.quota > 0 {
		used := len(key) + len(value)
		for k, v := range s.values {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used > s.quota {
			return ErrQuotaExceeded
		}
	}

	s.values[key] = value
	if s.log != nil {
		s.log.Debug("slot written", zap.String("key", key), zap.Int("bytes", len(value)))
	}
	return nil
}

// Delete drops a key; deleting a missing key is not an error.
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	delete(s.values, key)
	return nil
}
