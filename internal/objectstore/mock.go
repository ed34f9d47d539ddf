package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu      sync.Mutex
	objects map[string]ObjectMeta
	failDel map[string]error
	closed  bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		objects: map[string]ObjectMeta{},
		failDel: map[string]error{},
	}
}

// Put adds or replaces an object.
func (m *MockStore) Put(key string, size int64, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = ObjectMeta{Key: key, Size: size, LastModified: modified.UnixMilli()}
}

// FailDelete makes Delete of key return err.
func (m *MockStore) FailDelete(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDel[key] = err
}

// Keys returns all stored keys in order.
func (m *MockStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MockStore) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	var out []ObjectMeta
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MockStore) Head(ctx context.Context, key string) (ObjectMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ObjectMeta{}, ErrClosed
	}
	v, ok := m.objects[key]
	if !ok {
		return ObjectMeta{}, &ObjectError{Op: "Head", Key: key, Err: ErrNotFound}
	}
	return v, nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err, ok := m.failDel[key]; ok {
		return &ObjectError{Op: "Delete", Key: key, Err: err}
	}
	delete(m.objects, key)
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
