/*Package diag measures simulations: energy and momentum histories, charts of
those histories, scatter plots of particle positions and the accuracy of the
tree forces.
*/
package diag

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/force"
	"github.com/phil-mansfield/gravtree/sim"
)

// InitialStep is the step assigned to measurements taken before the first
// step of a simulation.
const InitialStep = -1

// Record is a single measurement of a system.
type Record struct {
	Step      int
	Kinetic   float64
	Potential float64
	Momentum  r2.Vec
}

// Total returns the total energy of the system.
func (r Record) Total() float64 { return r.Kinetic + r.Potential }

// Measure measures ps. The potential energy uses the same softening as the
// force law and is computed with O(N^2) pairwise sums.
func Measure(
	step int, ps []gravtree.Particle, G, softening float64, workers int,
) Record {
	r := Record{Step: step}
	for i := range ps {
		p := &ps[i]
		r.Kinetic += 0.5 * p.Mass * (p.VX*p.VX + p.VY*p.VY)
		r.Momentum = r2.Add(r.Momentum, r2.Scale(p.Mass, p.Vel()))
	}
	r.Potential = force.Potential(ps, G, softening, workers)
	return r
}

// History is a time series of Records.
type History struct {
	Records []Record
}

// Add appends r to h.
func (h *History) Add(r Record) { h.Records = append(h.Records, r) }

// Len returns the number of Records in h.
func (h *History) Len() int { return len(h.Records) }

// Observer returns a sim.Observer which adds a Record to h after every step.
func (h *History) Observer(G, softening float64, workers int) sim.Observer {
	return func(step int, ps []gravtree.Particle) {
		h.Add(Measure(step, ps, G, softening, workers))
	}
}

// RelativeEnergyDrift returns the change in total energy between the first
// and last Records, relative to the first. It returns 0 if h has fewer than two
// Records and NaN if the first total energy is zero.
func (h *History) RelativeEnergyDrift() float64 {
	if len(h.Records) < 2 {
		return 0
	}
	e0 := h.Records[0].Total()
	e1 := h.Records[len(h.Records)-1].Total()
	if e0 == 0 {
		return math.NaN()
	}
	return (e1 - e0) / math.Abs(e0)
}

// Series returns the steps and the kinetic, potential and total energies of
// every Record as separate slices.
func (h *History) Series() (steps, kinetic, potential, total []float64) {
	n := len(h.Records)
	steps = make([]float64, n)
	kinetic = make([]float64, n)
	potential = make([]float64, n)
	total = make([]float64, n)
	for i, r := range h.Records {
		steps[i] = float64(r.Step)
		kinetic[i], potential[i], total[i] = r.Kinetic, r.Potential, r.Total()
	}
	return steps, kinetic, potential, total
}
