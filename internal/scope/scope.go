package scope

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo retains the first value produced successfully. Concurrent first calls
// share one production; failures are not retained, so the next call retries.
// A produce func that calls back into the same Memo blocks.
type Memo[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	flight singleflight.Group
}

func (m *Memo[T]) Get(produce func() (T, error)) (T, error) {
	if v, ok := m.Load(); ok {
		return v, nil
	}

	v, err, _ := m.flight.Do(
		"", func() (any, error) {
			if v, ok := m.Load(); ok {
				return v, nil
			}
			v, err := produce()
			if err != nil {
				return nil, err
			}
			m.store(v)
			return v, nil
		},
	)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

func (m *Memo[T]) Load() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.value, m.set
}

func (m *Memo[T]) store(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = v
	m.set = true
}

// Ring hands out values round-robin from a pool that grows on demand up to
// its size. Each call takes the next slot; empty slots are filled first.
type Ring[T any] struct {
	mu    sync.Mutex
	size  int
	items []T
	next  int
}

func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	return &Ring[T]{
		size:  size,
		items: make([]T, 0, size),
	}
}

func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.items)
}

func (r *Ring[T]) Get(produce func() (T, error)) (T, error) {
	r.mu.Lock()
	full := len(r.items) >= r.size
	r.mu.Unlock()

	if !full {
		v, err := produce()
		if err != nil {
			var zero T
			return zero, err
		}

		r.mu.Lock()
		if len(r.items) < r.size {
			r.items = append(r.items, v)
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.items[r.next%len(r.items)]
	r.next++
	return v, nil
}
