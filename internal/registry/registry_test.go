package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle uint32

func TestAddGet(t *testing.T) {
	r := New[handle, string]()
	a := r.Add("a")
	b := r.Add("b")
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)

	v, ok := r.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = r.Get(0)
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestKeyedRefcount(t *testing.T) {
	r := New[handle, int]()
	_, ok := r.Acquire("tiles")
	assert.False(t, ok)

	h := r.AddKeyed("tiles", 7)
	again, ok := r.Acquire("tiles")
	require.True(t, ok)
	assert.Equal(t, h, again)

	v, last, ok := r.Release(h)
	require.True(t, ok)
	assert.False(t, last)
	assert.Equal(t, 7, v)

	_, last, ok = r.Release(h)
	require.True(t, ok)
	assert.True(t, last)

	_, ok = r.Acquire("tiles")
	assert.False(t, ok)
	_, _, ok = r.Release(h)
	assert.False(t, ok)
}

func TestReplace(t *testing.T) {
	r := New[handle, string]()
	h := r.Add("old")
	old, ok := r.Replace(h, "new")
	require.True(t, ok)
	assert.Equal(t, "old", old)
	v, _ := r.Get(h)
	assert.Equal(t, "new", v)

	_, ok = r.Replace(h+1, "x")
	assert.False(t, ok)
}

func TestDrain(t *testing.T) {
	r := New[handle, string]()
	r.Add("a")
	h := r.AddKeyed("k", "b")
	r.Acquire("k")
	r.Add("c")
	r.Release(r.Add("gone"))

	assert.Equal(t, []string{"a", "b", "c"}, r.Drain())
	assert.Zero(t, r.Len())
	_, ok := r.Get(h)
	assert.False(t, ok)

	// handles are never reused
	assert.Greater(t, r.Add("d"), h)
}

func TestPathKey(t *testing.T) {
	assert.Equal(t, PathKey([]string{"a.png", "b.png"}), PathKey([]string{"a.png", "b.png"}))
	assert.NotEqual(t, PathKey([]string{"a.png", "b.png"}), PathKey([]string{"b.png", "a.png"}))
	assert.NotEqual(t, PathKey([]string{"ab", "c"}), PathKey([]string{"a", "bc"}))
}
