// Package registry maps opaque handles to backend resources. Handles start
// at 1 so the zero value never names anything. Keyed entries are shared:
// adding the same key again bumps a reference count instead of creating a
// second resource.
package registry

import "strings"

// PathKey joins paths into a key. Order matters since it fixes texture
// array layer indices.
func PathKey(paths []string) string {
	return strings.Join(paths, "\x00")
}

type entry[V any] struct {
	value V
	key   string
	refs  int
}

// Registry is not safe for concurrent use; renderers only touch it from
// the thread that owns the graphics context.
type Registry[H ~uint32, V any] struct {
	entries map[H]*entry[V]
	keys    map[string]H
	last    H
}

func New[H ~uint32, V any]() *Registry[H, V] {
	return &Registry[H, V]{
		entries: make(map[H]*entry[V]),
		keys:    make(map[string]H),
	}
}

// Add stores v under a new handle.
func (r *Registry[H, V]) Add(v V) H {
	r.last++
	r.entries[r.last] = &entry[V]{value: v, refs: 1}
	return r.last
}

// AddKeyed stores v under a new handle reachable through Acquire(key).
func (r *Registry[H, V]) AddKeyed(key string, v V) H {
	h := r.Add(v)
	r.entries[h].key = key
	r.keys[key] = h
	return h
}

// Acquire returns the handle stored under key and takes another reference
// to it.
func (r *Registry[H, V]) Acquire(key string) (H, bool) {
	h, ok := r.keys[key]
	if !ok {
		return 0, false
	}
	r.entries[h].refs++
	return h, true
}

func (r *Registry[H, V]) Get(h H) (V, bool) {
	e, ok := r.entries[h]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Replace swaps the value behind h and returns the previous one.
func (r *Registry[H, V]) Replace(h H, v V) (V, bool) {
	e, ok := r.entries[h]
	if !ok {
		var zero V
		return zero, false
	}
	old := e.value
	e.value = v
	return old, true
}

// Release drops one reference to h. When it was the last, the entry is
// removed and last is true; the caller then frees the value.
func (r *Registry[H, V]) Release(h H) (v V, last bool, ok bool) {
	e, ok := r.entries[h]
	if !ok {
		return v, false, false
	}
	e.refs--
	if e.refs > 0 {
		return e.value, false, true
	}
	delete(r.entries, h)
	if e.key != "" {
		delete(r.keys, e.key)
	}
	return e.value, true, true
}

func (r *Registry[H, V]) Len() int {
	return len(r.entries)
}

// Drain removes every entry regardless of references and returns the
// values in handle order.
func (r *Registry[H, V]) Drain() []V {
	values := make([]V, 0, len(r.entries))
	for h := H(1); h <= r.last; h++ {
		if e, ok := r.entries[h]; ok {
			values = append(values, e.value)
		}
	}
	r.entries = make(map[H]*entry[V])
	r.keys = make(map[string]H)
	return values
}
