package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
)

// Integrate advances p by one semi-implicit Euler step of length dt under the
// raw force f:
//
//     v' = v + dt * (-G * f)
//     x' = x + dt * v'
//
// The position update uses the new velocity.
func Integrate(p *gravtree.Particle, f r2.Vec, G, dt float64) {
	p.VX += dt * (-G * f.X)
	p.VY += dt * (-G * f.Y)
	p.X += dt * p.VX
	p.Y += dt * p.VY
}

// Partition splits n particles into contiguous ranges [start, stop) for the
// given number of workers. Worker i gets [i*n/workers, (i+1)*n/workers), so
// the ranges never overlap and cover every particle exactly once. Ranges are
// empty when there are more workers than particles.
//
// Every particle is assumed to cost the same, which isn't true for clustered
// distributions. Nothing is rebalanced.
func Partition(n, workers int) [][2]int {
	ranges := make([][2]int, workers)
	for i := range ranges {
		ranges[i] = [2]int{i * n / workers, (i + 1) * n / workers}
	}
	return ranges
}
