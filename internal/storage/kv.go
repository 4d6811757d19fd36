// Package storage is the durable per-client key-value store that holds the
// serialized cart and session.
package storage

import (
	"context"
	"sync"
)

type KV interface {
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type MemKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{m: map[string][]byte{}}
}

func (s *MemKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemKV) Set(ctx context.Context, key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), val...)
	return nil
}

func (s *MemKV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemKV) Ping(ctx context.Context) error { return nil }

type prefixed struct {
	kv     KV
	prefix string
}

// Prefixed scopes every key of kv under prefix.
func Prefixed(kv KV, prefix string) KV {
	return &prefixed{kv: kv, prefix: prefix}
}

// ForClient scopes kv to one client context.
func ForClient(kv KV, clientID string) KV {
	return Prefixed(kv, "client:"+clientID+":")
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, val []byte) error {
	return p.kv.Set(ctx, p.prefix+key, val)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Ping(ctx context.Context) error { return p.kv.Ping(ctx) }
