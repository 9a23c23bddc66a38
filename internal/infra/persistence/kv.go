// Package persistence implements the local-first storage policy: every write
// lands in the on-device KV first, then is mirrored to the remote database
// on a best-effort basis. Reads prefer the remote copy when it is reachable.
package persistence

import (
	"context"
	"sync"
)

// Fixed keys, one JSON blob per collection.
const (
	KeyLeads     = "app_leads_v1"
	KeyProfile   = "app_profile_v1"
	KeyHistory   = "app_history_v1"
	KeyTemplates = "app_templates_v1"
)

// KV is the on-device store. Get reports found=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
