package objectstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryScheme prefixes URLs handed out by MemoryStore.
const MemoryScheme = "memory://"

// MemoryStore keeps objects in process. It is safe for concurrent use and
// supports fault injection for tests.
type MemoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	putErr    error
	deleteErr error
	puts      int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, data []byte, contentType, folder string) (string, error) {
	if err := validatePut(data, contentType, folder); err != nil {
		return "", err
	}
	folder, err := validateSegment("folder", folder)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return "", m.putErr
	}
	url := MemoryScheme + objectName(folder, contentType)
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[url] = cp
	return url, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, MemoryScheme) {
		return errForeignURL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

// Seed stores an object under a fixed URL.
func (m *MemoryStore) Seed(url string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[url] = data
}

// FailPut makes every Put fail with err; nil clears the fault.
func (m *MemoryStore) FailPut(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// FailDelete makes every Delete fail with err; nil clears the fault.
func (m *MemoryStore) FailDelete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
}

// Has reports whether url is stored.
func (m *MemoryStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Puts returns the number of Put attempts.
func (m *MemoryStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Deleted returns the URLs deleted so far, in order.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

var _ Store = (*MemoryStore)(nil)
