package vkg

import (
	"github.com/celer/dualrender/internal/rlog"
)

type deletion struct {
	name string
	fn   func()
}

// DeletionQueue records teardown actions as resources are created and runs
// them in reverse order on Flush. It is not safe for concurrent use; callers
// only push during setup and flush after the device is idle.
type DeletionQueue struct {
	Name    string
	entries []deletion
}

func NewDeletionQueue(name string) *DeletionQueue {
	return &DeletionQueue{Name: name}
}

// Push records d.Destroy.
func (q *DeletionQueue) Push(d Destroyer) {
	q.PushFunc("", d.Destroy)
}

// PushFunc records fn under name, which only shows up in debug logs.
func (q *DeletionQueue) PushFunc(name string, fn func()) {
	q.entries = append(q.entries, deletion{name: name, fn: fn})
}

// Flush runs every recorded action once, last pushed first, and empties
// the queue.
func (q *DeletionQueue) Flush() {
	if len(q.entries) == 0 {
		return
	}
	rlog.Logger().Debug("vkg: flushing deletion queue", "queue", q.Name, "entries", len(q.entries))
	entries := q.entries
	q.entries = nil
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].name != "" {
			rlog.Logger().Debug("vkg: destroy", "queue", q.Name, "object", entries[i].name)
		}
		entries[i].fn()
	}
}

func (q *DeletionQueue) Len() int {
	return len(q.entries)
}
