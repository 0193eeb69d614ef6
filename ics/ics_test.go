package ics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gravtree"
)

func TestUniform(t *testing.T) {
	ps, err := Uniform(2000, 7, 0.5)
	require.NoError(t, err)
	require.Len(t, ps, 2000)
	require.NoError(t, gravtree.ValidateAll(ps))

	sumX, sumY := 0.0, 0.0
	for _, p := range ps {
		assert.True(t, p.X > 0 && p.X < 1 && p.Y > 0 && p.Y < 1)
		assert.Equal(t, 0.5, p.Mass)
		assert.Equal(t, 0.0, p.VX)
		assert.Equal(t, 0.0, p.VY)
		sumX += p.X
		sumY += p.Y
	}
	assert.InDelta(t, 0.5, sumX/2000, 0.03)
	assert.InDelta(t, 0.5, sumY/2000, 0.03)
}

func TestDisk(t *testing.T) {
	spin := 3.0
	ps, err := Disk(1000, 11, 1e-3, spin)
	require.NoError(t, err)
	require.Len(t, ps, 1000)
	require.NoError(t, gravtree.ValidateAll(ps))

	inner := 0
	for _, p := range ps {
		dx, dy := p.X-DiskCenter.X, p.Y-DiskCenter.Y
		r := math.Sqrt(dx*dx + dy*dy)
		assert.True(t, r <= DiskRadius+1e-12)

		// Rigid rotation: v = spin * (-dy, dx).
		assert.InDelta(t, -spin*dy, p.VX, 1e-12)
		assert.InDelta(t, spin*dx, p.VY, 1e-12)

		if r < DiskRadius/math.Sqrt2 {
			inner++
		}
	}

	// Half the area of the disk is inside radius R/sqrt(2).
	assert.InDelta(t, 500, inner, 80)
}

func TestDeterministic(t *testing.T) {
	a, err := Uniform(100, 3, 1)
	require.NoError(t, err)
	b, err := Uniform(100, 3, 1)
	require.NoError(t, err)
	c, err := Uniform(100, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	d1, err := Disk(100, 3, 1, 1)
	require.NoError(t, err)
	d2, err := Disk(100, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDistinctPositions(t *testing.T) {
	ps, err := Disk(5000, 1, 1, 0)
	require.NoError(t, err)

	seen := map[[2]float64]bool{}
	for _, p := range ps {
		key := [2]float64{p.X, p.Y}
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestBadArguments(t *testing.T) {
	table := []struct {
		n          int
		mass, spin float64
	}{
		{0, 1, 0},
		{-5, 1, 0},
		{10, 0, 0},
		{10, -1, 0},
		{10, math.NaN(), 0},
		{10, math.Inf(1), 0},
	}

	for i, test := range table {
		_, err := Uniform(test.n, 1, test.mass)
		assert.True(t, errors.Is(err, gravtree.InvalidInput), "%d", i)
		_, err = Disk(test.n, 1, test.mass, test.spin)
		assert.True(t, errors.Is(err, gravtree.InvalidInput), "%d", i)
	}

	_, err := Disk(10, 1, 1, math.NaN())
	assert.True(t, errors.Is(err, gravtree.InvalidInput))
}
