package mocks

import (
	"github.com/mcoot/mountainshoot/internal/dependencies/random"
)

// MockRandom returns queued strings instead of random ones
type MockRandom struct {
	queue []string
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String pops the next queued result, or returns "" when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.queue) == 0 {
		return ""
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	return next
}

// QueueString adds values to the result queue
func (r *MockRandom) QueueString(values ...string) {
	r.queue = append(r.queue, values...)
}
