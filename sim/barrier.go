package sim

import (
	"fmt"
	"sync"
)

// Barrier is a reusable rendezvous point for a fixed number of goroutines.
//
// Each Wait records the barrier's current phase before arriving. The last
// arrival flips the phase and wakes everyone, and waiters only leave once the
// phase differs from the one they recorded. A goroutine which races ahead to
// the next use of the barrier therefore can't be mistaken for a late arrival
// at the previous one.
type Barrier struct {
	mu           sync.Mutex
	cond         *sync.Cond
	participants int
	waiting      int
	phase        bool
}

// NewBarrier returns a Barrier for the given number of participants.
func NewBarrier(participants int) *Barrier {
	if participants <= 0 {
		panic(fmt.Sprintf(
			"Barrier needs a positive number of participants, got %d.",
			participants,
		))
	}
	b := &Barrier{participants: participants}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all participants have called Wait.
func (b *Barrier) Wait() {
	b.mu.Lock()
	phase := b.phase
	b.waiting++
	if b.waiting == b.participants {
		b.waiting = 0
		b.phase = !phase
		b.cond.Broadcast()
	}
	for phase == b.phase {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// Participants returns the number of goroutines the barrier waits for.
func (b *Barrier) Participants() int { return b.participants }
