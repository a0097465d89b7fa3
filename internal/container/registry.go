package container

import (
	"errors"
	"fmt"
	"sync"
)

var ErrDuplicate = errors.New("already registered")

// DuplicateError names the key that was registered twice.
type DuplicateError[K comparable] struct {
	Key K
}

func (e *DuplicateError[K]) Error() string {
	return fmt.Sprintf("%v %s", e.Key, ErrDuplicate)
}

func (e *DuplicateError[K]) Is(target error) bool {
	return target == ErrDuplicate
}

type Entry[K comparable, V any] struct {
	Key    K
	Value  V
	Static bool
}

// Registry is an insertion-ordered table that rejects duplicate keys.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	order   []K
	entries map[K]*Entry[K, V]
}

func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]*Entry[K, V]),
	}
}

// RegisterAll stores value under every key. Either all keys are added or,
// when one of them is taken or repeated, none is.
func (r *Registry[K, V]) RegisterAll(keys []K, value V, static bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[K]bool, len(keys))
	for _, key := range keys {
		if _, exists := r.entries[key]; exists || seen[key] {
			return &DuplicateError[K]{Key: key}
		}
		seen[key] = true
	}

	for _, key := range keys {
		r.entries[key] = &Entry[K, V]{
			Key:    key,
			Value:  value,
			Static: static,
		}
		r.order = append(r.order, key)
	}
	return nil
}

func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[key]
	return exists
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[key]
	if !exists {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

func (r *Registry[K, V]) GetEntry(key K) (Entry[K, V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[key]
	if !exists {
		return Entry[K, V]{}, false
	}
	return *entry, true
}

// Keys returns keys in registration order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Statics returns the keys registered as static, in registration order.
func (r *Registry[K, V]) Statics() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var statics []K
	for _, key := range r.order {
		if r.entries[key].Static {
			statics = append(statics, key)
		}
	}
	return statics
}

func (r *Registry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Clone returns an independent copy holding mapValue of every stored value.
func (r *Registry[K, V]) Clone(mapValue func(V) V) *Registry[K, V] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry[K, V]()
	for _, key := range r.order {
		entry := *r.entries[key]
		entry.Value = mapValue(entry.Value)
		clone.entries[key] = &entry
		clone.order = append(clone.order, key)
	}
	return clone
}
