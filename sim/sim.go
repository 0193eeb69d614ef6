/*Package sim runs Barnes-Hut simulations.

A Simulation owns a fixed pool of worker goroutines and a single quadtree.
Every step goes through the same four phases:

    BUILD      coordinator inserts every particle into an empty tree
    (barrier)
    UPDATE     each worker computes forces for its own range of particles
               and integrates them, reading the tree concurrently
    (barrier)
    CLEAR      coordinator discards the tree

The tree is only written while every worker is parked at a barrier and only
read while the coordinator is, so it needs no locks. Workers only write to
their own range of the particle slice, and the tree holds copies of particle
values rather than pointers into the slice, so a worker never sees another
worker's half-finished update.
*/
package sim

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/force"
	"github.com/phil-mansfield/gravtree/tree"
)

const (
	// DefaultWorkers is the size of the worker pool when none is configured.
	DefaultWorkers = 10
	// DefaultGravNumerator gives the default gravitational constant,
	// G = DefaultGravNumerator / N.
	DefaultGravNumerator = 100.0
)

// Config holds the parameters of a run.
type Config struct {
	Steps     int
	DeltaT    float64
	Theta     float64
	Softening float64
	// G is the gravitational constant the raw tree forces are scaled by.
	G        float64
	Workers  int
	MaxDepth int
}

// DefaultConfig returns the Config used for n particles when nothing else is
// specified. Steps, DeltaT and Theta still need to be set.
func DefaultConfig(n int) Config {
	con := Config{
		Softening: force.DefaultSoftening,
		Workers:   DefaultWorkers,
		MaxDepth:  tree.DefaultMaxDepth,
	}
	if n > 0 {
		con.G = DefaultGravNumerator / float64(n)
	}
	return con
}

// Check returns an InvalidInput error if con can't be used to simulate n
// particles.
func (con *Config) Check(n int) error {
	switch {
	case n <= 0:
		return configError("particle count must be positive, but is %d", n)
	case con.Steps < 0:
		return configError("Steps must be non-negative, but is %d", con.Steps)
	case !finite(con.DeltaT) || con.DeltaT < 0:
		return configError("DeltaT must be finite and non-negative, but is %g",
			con.DeltaT)
	case !finite(con.Theta) || con.Theta < 0:
		return configError("Theta must be finite and non-negative, but is %g",
			con.Theta)
	case !finite(con.Softening) || con.Softening < 0:
		return configError(
			"Softening must be finite and non-negative, but is %g",
			con.Softening)
	case !finite(con.G):
		return configError("G must be finite, but is %g", con.G)
	case con.Workers <= 0:
		return configError("Workers must be positive, but is %d", con.Workers)
	}
	return nil
}

// Observer is called by the coordinator after each step has been cleared. The
// workers are parked at a barrier while it runs, so it may read ps freely,
// but it must not modify it or hold on to it.
type Observer func(step int, ps []gravtree.Particle)

// Every returns an Observer which only calls obs after every nth step. If n
// is not positive, obs is never called.
func Every(n int, obs Observer) Observer {
	return func(step int, ps []gravtree.Particle) {
		if n > 0 && (step+1)%n == 0 {
			obs(step, ps)
		}
	}
}

// Simulation evolves a set of particles.
type Simulation struct {
	con     Config
	ps      []gravtree.Particle
	tree    *tree.Tree
	barrier *Barrier
	ranges  [][2]int

	observers []Observer
	abort     int32
	// errs[id] is the first error worker id hit during the current step. It
	// is only written during UPDATE and only read by the coordinator while
	// the workers are parked.
	errs []error
}

// New creates a Simulation over ps, which is updated in place. Every particle
// is checked before anything runs.
func New(ps []gravtree.Particle, con Config) (*Simulation, error) {
	if err := con.Check(len(ps)); err != nil {
		return nil, err
	}
	if err := gravtree.ValidateAll(ps); err != nil {
		return nil, err
	}

	return &Simulation{
		con:     con,
		ps:      ps,
		tree:    tree.New(con.MaxDepth),
		barrier: NewBarrier(con.Workers + 1),
		ranges:  Partition(len(ps), con.Workers),
		errs:    make([]error, con.Workers),
	}, nil
}

// Observe registers an Observer. Observers run in registration order.
func (sim *Simulation) Observe(obs Observer) {
	sim.observers = append(sim.observers, obs)
}

// Particles returns the particles being simulated.
func (sim *Simulation) Particles() []gravtree.Particle { return sim.ps }

// Config returns the simulation's configuration.
func (sim *Simulation) Config() Config { return sim.con }

// Run performs every step of the simulation. If a step can't be built, or a
// worker integrates a particle to a non-finite state, the workers are
// released, joined, and the first error is returned annotated with the step
// and particle. Run must only be called once.
func (sim *Simulation) Run() error {
	start := time.Now()
	log.WithFields(log.Fields{
		"particles": len(sim.ps),
		"steps":     sim.con.Steps,
		"workers":   sim.con.Workers,
		"theta":     sim.con.Theta,
		"dt":        sim.con.DeltaT,
	}).Info("Starting simulation.")

	done := make(chan int, sim.con.Workers)
	for id := range sim.ranges {
		go sim.work(id, done)
	}

	var err error
	for step := 0; step < sim.con.Steps; step++ {
		if err = sim.tree.InsertAll(sim.ps); err != nil {
			err = gravtree.At(err, step, -1)
			sim.tree.Clear()
			atomic.StoreInt32(&sim.abort, 1)
			sim.barrier.Wait()
			break
		}

		sim.barrier.Wait() // built
		sim.barrier.Wait() // updated

		if err = sim.updateError(); err != nil {
			sim.tree.Clear()
			if step+1 < sim.con.Steps {
				atomic.StoreInt32(&sim.abort, 1)
				sim.barrier.Wait()
			}
			break
		}

		if log.IsLevelEnabled(log.DebugLevel) {
			log.WithFields(log.Fields{
				"step": step, "nodes": sim.tree.Len(),
				"depth": sim.tree.Depth(),
			}).Debug("Step finished.")
		}

		sim.tree.Clear()
		for _, obs := range sim.observers {
			obs(step, sim.ps)
		}
	}

	for range sim.ranges {
		<-done
	}

	if err != nil {
		log.WithError(err).Error("Simulation aborted.")
		return err
	}
	log.WithField("elapsed", time.Since(start)).Info("Simulation finished.")
	return nil
}

// work is the loop run by a single worker goroutine. Its id is sent to done
// once it has finished every step or the run has been aborted.
func (sim *Simulation) work(id int, done chan<- int) {
	defer func() { done <- id }()

	ev := force.NewEvaluator(sim.con.Theta, sim.con.Softening)
	start, stop := sim.ranges[id][0], sim.ranges[id][1]
	G, dt := sim.con.G, sim.con.DeltaT

	for step := 0; step < sim.con.Steps; step++ {
		sim.barrier.Wait() // built
		if atomic.LoadInt32(&sim.abort) != 0 {
			return
		}

		for i := start; i < stop; i++ {
			p := &sim.ps[i]
			f := ev.ForceOn(sim.tree, i, p.Pos())
			Integrate(p, f, G, dt)
			if sim.errs[id] == nil && !finiteState(p) {
				sim.errs[id] = &gravtree.Error{
					Kind: gravtree.InvalidInput, Op: "sim.Update",
					Particle: i, Step: step,
					Err: fmt.Errorf("integration gave non-finite state "+
						"%+v", *p),
				}
			}
		}

		sim.barrier.Wait() // updated
	}
}

// updateError returns the error recorded by the lowest-numbered worker during
// the last UPDATE, if any.
func (sim *Simulation) updateError() error {
	for _, err := range sim.errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func finiteState(p *gravtree.Particle) bool {
	return finite(p.X) && finite(p.Y) && finite(p.VX) && finite(p.VY)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func configError(format string, args ...interface{}) error {
	return gravtree.Wrap(gravtree.InvalidInput, "sim.Config",
		gravtree.Errorf(gravtree.InvalidInput, format, args...))
}
