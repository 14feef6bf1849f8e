package store

import (
	"sync/atomic"

	"cardiodash/domain/core"
)

// Ticket is the store's name for a load ticket
type Ticket = core.LoadTicket

// SequenceManager issues monotonically increasing load tickets
type SequenceManager struct {
	current int64
}

// NewSequenceManager creates a sequence manager whose first ticket is 1
func NewSequenceManager() *SequenceManager {
	return &SequenceManager{}
}

// Next returns a new, unique ticket atomically
func (s *SequenceManager) Next() Ticket {
	return Ticket(atomic.AddInt64(&s.current, 1))
}

// GetCurrent returns the last issued ticket without incrementing
func (s *SequenceManager) GetCurrent() Ticket {
	return Ticket(atomic.LoadInt64(&s.current))
}
