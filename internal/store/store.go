// Package store holds the working Dataset. It is the only owner of the
// "current dataset" reference; everything else reads snapshots from it.
package store

import (
	"sync/atomic"

	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/internal"
)

type entry struct {
	ticket Ticket
	data   *dataset.Dataset
}

// Store is an in-memory dataset container with a stale-load guard. A load takes
// a ticket with Begin before its fetch and hands it back to Commit; a commit
// whose ticket is not the latest issued is discarded.
type Store struct {
	seq     *SequenceManager
	current atomic.Pointer[entry]
	logger  *internal.Logger
}

// New creates an empty store
func New(logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Store{seq: NewSequenceManager(), logger: logger}
	s.current.Store(&entry{data: dataset.Empty()})
	return s
}

// Get returns the current dataset, never nil
func (s *Store) Get() *dataset.Dataset {
	return s.current.Load().data
}

// Begin issues a ticket for a load that will finish later. Issuing a ticket
// supersedes every load begun before it.
func (s *Store) Begin() Ticket {
	return s.seq.Next()
}

// Latest returns the most recently issued ticket
func (s *Store) Latest() Ticket {
	return s.seq.GetCurrent()
}

// Commit installs ds if t is still the latest ticket. Otherwise it returns
// core.ErrStaleLoad and leaves the current dataset untouched.
func (s *Store) Commit(t Ticket, ds *dataset.Dataset) error {
	if ds == nil {
		ds = dataset.Empty()
	}
	next := &entry{ticket: t, data: ds}
	for {
		cur := s.current.Load()
		if t != s.seq.GetCurrent() || t < cur.ticket {
			s.logger.Debug("Discarding stale load %d (latest %d)", t, s.seq.GetCurrent())
			return core.ErrStaleLoad
		}
		if s.current.CompareAndSwap(cur, next) {
			s.logger.Debug("Committed load %d: %d records", t, ds.Len())
			return nil
		}
	}
}

// Replace installs ds immediately, superseding any in-flight load
func (s *Store) Replace(ds *dataset.Dataset) {
	for {
		if err := s.Commit(s.Begin(), ds); err == nil {
			return
		}
	}
}

// Clear empties the working dataset and supersedes any in-flight load
func (s *Store) Clear() {
	s.Replace(dataset.Empty())
}
