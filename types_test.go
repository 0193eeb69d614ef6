package gravtree

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestValidate(t *testing.T) {
	good := Particle{X: 0.5, Y: 0.5, Mass: 1, VX: 3, VY: -2, Brightness: 0.1}

	table := []struct {
		modify func(*Particle)
		valid  bool
	}{
		{func(p *Particle) {}, true},
		{func(p *Particle) { p.X, p.Y = 0, 0 }, true},
		{func(p *Particle) { p.X, p.Y = 1, 1 }, true},
		{func(p *Particle) { p.X = -1e-12 }, false},
		{func(p *Particle) { p.Y = 1 + 1e-12 }, false},
		{func(p *Particle) { p.Mass = 0 }, false},
		{func(p *Particle) { p.Mass = -1 }, false},
		{func(p *Particle) { p.X = math.NaN() }, false},
		{func(p *Particle) { p.VY = math.Inf(-1) }, false},
		{func(p *Particle) { p.Brightness = math.NaN() }, false},
		{func(p *Particle) { p.VX = 1e300 }, true},
	}

	for i, test := range table {
		p := good
		test.modify(&p)
		err := p.Validate(i)
		if test.valid {
			assert.NoError(t, err, "%d", i)
			continue
		}

		require.Error(t, err, "%d", i)
		assert.True(t, errors.Is(err, InvalidInput), "%d", i)
		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, i, e.Particle)
		assert.Equal(t, -1, e.Step)
	}
}

func TestValidateAll(t *testing.T) {
	assert.True(t, errors.Is(ValidateAll(nil), InvalidInput))

	ps := []Particle{
		{X: 0.1, Y: 0.1, Mass: 1},
		{X: 0.2, Y: 0.2, Mass: 1},
		{X: 0.3, Y: 1.3, Mass: 1},
		{X: 0.4, Y: 0.4, Mass: -1},
	}
	err := ValidateAll(ps)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 2, e.Particle)

	assert.NoError(t, ValidateAll(ps[:2]))
}

func TestVectorAccessors(t *testing.T) {
	p := Particle{X: 0.1, Y: 0.2, VX: 3, VY: 4}
	assert.Equal(t, r2.Vec{X: 0.1, Y: 0.2}, p.Pos())
	assert.Equal(t, r2.Vec{X: 3, Y: 4}, p.Vel())

	p.SetPos(r2.Vec{X: 0.7, Y: 0.8})
	p.SetVel(r2.Vec{X: -1, Y: -2})
	assert.Equal(t, Particle{X: 0.7, Y: 0.8, VX: -1, VY: -2}, p)
}
