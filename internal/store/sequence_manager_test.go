package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceManager_Next(t *testing.T) {
	sm := NewSequenceManager()

	assert.Equal(t, Ticket(0), sm.GetCurrent())
	assert.Equal(t, Ticket(1), sm.Next())
	assert.Equal(t, Ticket(2), sm.Next())
	assert.Equal(t, Ticket(3), sm.Next())
	assert.Equal(t, Ticket(3), sm.GetCurrent())
}

func TestSequenceManager_ConcurrentSafety(t *testing.T) {
	sm := NewSequenceManager()
	const goroutines = 50
	const perGoroutine = 200

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[Ticket]bool, goroutines*perGoroutine)
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]Ticket, 0, perGoroutine)
			for j := 0; j < perGoroutine; j++ {
				local = append(local, sm.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, tk := range local {
				assert.False(t, seen[tk], "duplicate ticket %d", tk)
				seen[tk] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, Ticket(goroutines*perGoroutine), sm.GetCurrent())
}
