package gravtree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a single point mass. The field order is the on-disk record
// layout used by .gal files, so Particle must stay six float64 values with no
// padding.
type Particle struct {
	X, Y       float64
	Mass       float64
	VX, VY     float64
	Brightness float64 // Not used by the simulation, carried through as-is.
}

// Pos returns the position of p.
func (p *Particle) Pos() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Vel returns the velocity of p.
func (p *Particle) Vel() r2.Vec { return r2.Vec{X: p.VX, Y: p.VY} }

// SetPos sets the position of p.
func (p *Particle) SetPos(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// SetVel sets the velocity of p.
func (p *Particle) SetVel(v r2.Vec) { p.VX, p.VY = v.X, v.Y }

// Validate returns an InvalidInput error if p cannot be placed in the
// simulation: every field must be finite, the mass must be positive and the
// position must lie inside the unit square. idx is the index of p and is only
// used to build the error.
func (p *Particle) Validate(idx int) error {
	fields := [...]float64{p.X, p.Y, p.Mass, p.VX, p.VY, p.Brightness}
	for _, x := range fields {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &Error{
				Kind: InvalidInput, Op: "validate", Particle: idx, Step: -1,
				Err: errorf("non-finite field in %+v", *p),
			}
		}
	}

	if p.Mass <= 0 {
		return &Error{
			Kind: InvalidInput, Op: "validate", Particle: idx, Step: -1,
			Err: errorf("mass must be positive, but is %g", p.Mass),
		}
	}

	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return &Error{
			Kind: InvalidInput, Op: "validate", Particle: idx, Step: -1,
			Err: errorf(
				"position (%g, %g) is outside the unit square", p.X, p.Y,
			),
		}
	}

	return nil
}

// ValidateAll calls Validate on every particle in ps and returns the first
// error.
func ValidateAll(ps []Particle) error {
	if len(ps) == 0 {
		return Errorf(InvalidInput, "particle count must be positive")
	}
	for i := range ps {
		if err := ps[i].Validate(i); err != nil {
			return err
		}
	}
	return nil
}
