package sim

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarrierOrdering(t *testing.T) {
	const (
		P = 8
		K = 200
	)

	b := NewBarrier(P)
	// written[id] is the last iteration participant id finished writing.
	written := make([]int, P)
	for i := range written {
		written[i] = -1
	}
	failures := make([]int, P)
	var arrivals int64

	wg := &sync.WaitGroup{}
	for id := 0; id < P; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for iter := 0; iter < K; iter++ {
				// Read phase: everyone must have finished iteration
				// iter - 1.
				b.Wait()
				for j := range written {
					if written[j] != iter-1 {
						failures[id]++
					}
				}
				if n := atomic.LoadInt64(&arrivals); n < int64(P*iter) {
					failures[id]++
				}

				// Write phase.
				b.Wait()
				written[id] = iter
				atomic.AddInt64(&arrivals, 1)
			}
		}(id)
	}
	wg.Wait()

	for id := range failures {
		assert.Equal(t, 0, failures[id], "participant %d", id)
	}
	assert.Equal(t, int64(P*K), arrivals)
}

func TestBarrierCounter(t *testing.T) {
	const (
		P = 5
		K = 100
	)

	b := NewBarrier(P)
	var count int64
	bad := int64(0)

	wg := &sync.WaitGroup{}
	for id := 0; id < P; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < K; iter++ {
				atomic.AddInt64(&count, 1)
				b.Wait()
				if atomic.LoadInt64(&count) < int64(P*(iter+1)) {
					atomic.AddInt64(&bad, 1)
				}
				b.Wait()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), bad)
	assert.Equal(t, int64(P*K), count)
}

func TestBarrierSingleParticipant(t *testing.T) {
	b := NewBarrier(1)
	for i := 0; i < 10; i++ {
		b.Wait()
	}
	assert.Equal(t, 1, b.Participants())
}

func TestBarrierPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { NewBarrier(0) })
}
