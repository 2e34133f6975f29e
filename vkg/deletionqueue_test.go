package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletionQueueLIFO(t *testing.T) {
	q := NewDeletionQueue("test")
	var order []string

	q.PushFunc("a", func() { order = append(order, "a") })
	q.Push(DestroyFunc(func() { order = append(order, "b") }))
	q.PushFunc("", func() { order = append(order, "c") })
	require.Equal(t, 3, q.Len())

	q.Flush()
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Equal(t, 0, q.Len())

	// a second flush must not run anything again
	q.Flush()
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestDeletionQueueEmptyFlush(t *testing.T) {
	q := NewDeletionQueue("empty")
	assert.NotPanics(t, q.Flush)
	assert.Equal(t, 0, q.Len())
}

func TestDeletionQueuePushDuringFlush(t *testing.T) {
	q := NewDeletionQueue("reentrant")
	ran := 0
	q.PushFunc("outer", func() {
		ran++
		q.PushFunc("inner", func() { ran++ })
	})
	q.Flush()
	assert.Equal(t, 1, ran)
	require.Equal(t, 1, q.Len())
	q.Flush()
	assert.Equal(t, 2, ran)
}

type countingDestroyer struct{ n int }

func (c *countingDestroyer) Destroy() { c.n++ }

func TestDeletionQueueZeroValueMethodValues(t *testing.T) {
	var q DeletionQueue
	c := &countingDestroyer{}
	q.PushFunc("fence", c.Destroy)
	q.Push(c)
	require.Equal(t, 2, q.Len())

	q.Flush()
	assert.Equal(t, 2, c.n)
	assert.Equal(t, 0, q.Len())
}
