package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the persistence collaborator: a flat string key-value store.
type KV interface {
	// Get returns the value stored under key; ok is false when absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Backend is a KV that holds resources until closed.
type Backend interface {
	KV
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists every name Open accepts.
var Backends = []string{BackendFile, BackendSQLite, BackendMemory}

// Open creates the named backend rooted at dir.
func Open(backend, dir string) (Backend, error) {
	switch backend {
	case BackendFile, "":
		return NewFileKV(dir)
	case BackendSQLite:
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteKV(filepath.Join(dir, SQLiteFileName))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (use %s)", backend, strings.Join(Backends, ", "))
	}
}

// IsDataFile reports whether a file name in the data directory belongs to
// one of the persistent backends.
func IsDataFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, fileKVExt) ||
		base == SQLiteFileName ||
		base == SQLiteFileName+"-wal"
}

// MemoryKV keeps values in a map. It is safe for concurrent use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-process store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error { return nil }
