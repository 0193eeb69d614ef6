/*Package ics generates initial conditions for simulations.

Every generator is deterministic: the same arguments always give the same
particles. Positions lie strictly inside the unit square and no two particles
share a position.
*/
package ics

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
)

const (
	// DiskRadius is the radius of the disk generated by Disk.
	DiskRadius = 0.4
)

// DiskCenter is the center of the disk generated by Disk.
var DiskCenter = r2.Vec{X: 0.5, Y: 0.5}

// Uniform returns n stationary particles of the given mass placed uniformly
// in the unit square.
func Uniform(n int, seed uint64, mass float64) ([]gravtree.Particle, error) {
	if err := checkArgs("ics.Uniform", n, mass); err != nil {
		return nil, err
	}

	gen := rand.New(rand.NewSource(seed))
	return generate(n, mass, func() (pos, vel r2.Vec) {
		pos = r2.Vec{X: openUnit(gen), Y: openUnit(gen)}
		return pos, r2.Vec{}
	}), nil
}

// Disk returns n particles of the given mass placed uniformly within a disk
// of radius DiskRadius around DiskCenter. Each particle moves tangentially
// with speed spin*r, so the disk rotates rigidly counter-clockwise with
// angular velocity spin.
func Disk(
	n int, seed uint64, mass, spin float64,
) ([]gravtree.Particle, error) {
	if err := checkArgs("ics.Disk", n, mass); err != nil {
		return nil, err
	}
	if math.IsNaN(spin) || math.IsInf(spin, 0) {
		return nil, gravtree.Wrap(gravtree.InvalidInput, "ics.Disk",
			gravtree.Errorf(gravtree.InvalidInput,
				"spin must be finite, but is %g", spin))
	}

	gen := rand.New(rand.NewSource(seed))
	return generate(n, mass, func() (pos, vel r2.Vec) {
		// sqrt gives a uniform density per unit area.
		r := DiskRadius * math.Sqrt(gen.Float64())
		sin, cos := math.Sincos(2 * math.Pi * gen.Float64())

		pos = r2.Add(DiskCenter, r2.Vec{X: r * cos, Y: r * sin})
		vel = r2.Vec{X: -spin * r * sin, Y: spin * r * cos}
		return pos, vel
	}), nil
}

// generate calls draw until it has n distinct positions.
func generate(
	n int, mass float64, draw func() (pos, vel r2.Vec),
) []gravtree.Particle {
	ps := make([]gravtree.Particle, 0, n)
	seen := make(map[r2.Vec]bool, n)

	for len(ps) < n {
		pos, vel := draw()
		if seen[pos] {
			continue
		}
		seen[pos] = true

		ps = append(ps, gravtree.Particle{
			X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y,
			Mass: mass, Brightness: 1,
		})
	}

	return ps
}

// openUnit returns a number in (0, 1).
func openUnit(gen *rand.Rand) float64 {
	for {
		if x := gen.Float64(); x > 0 {
			return x
		}
	}
}

func checkArgs(op string, n int, mass float64) error {
	if n <= 0 {
		return gravtree.Wrap(gravtree.InvalidInput, op,
			gravtree.Errorf(gravtree.InvalidInput,
				"particle count must be positive, but is %d", n))
	} else if !(mass > 0) || math.IsInf(mass, 0) {
		return gravtree.Wrap(gravtree.InvalidInput, op,
			gravtree.Errorf(gravtree.InvalidInput,
				"mass must be positive and finite, but is %g", mass))
	}
	return nil
}
