// Package memory keeps repositories in process memory. It backs
// STORAGE_DRIVER=memory and the service tests; nothing survives a restart.
package memory

import (
	"time"

	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

func cloneTimes(in []time.Time) []time.Time {
	if in == nil {
		return []time.Time{}
	}
	out := make([]time.Time, len(in))
	copy(out, in)
	return out
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
