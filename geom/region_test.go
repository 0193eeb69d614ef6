package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestQuadrant(t *testing.T) {
	table := []struct {
		p r2.Vec
		q Quadrant
	}{
		{r2.Vec{X: 0.25, Y: 0.75}, TopLeft},
		{r2.Vec{X: 0.75, Y: 0.75}, TopRight},
		{r2.Vec{X: 0.25, Y: 0.25}, BottomLeft},
		{r2.Vec{X: 0.75, Y: 0.25}, BottomRight},
		// Ties go bottom and left.
		{r2.Vec{X: 0.5, Y: 0.5}, BottomLeft},
		{r2.Vec{X: 0.5, Y: 0.75}, TopLeft},
		{r2.Vec{X: 0.75, Y: 0.5}, BottomRight},
		{r2.Vec{X: 0, Y: 1}, TopLeft},
		{r2.Vec{X: 1, Y: 0}, BottomRight},
	}

	for i, test := range table {
		assert.Equal(t, test.q, UnitSquare.Quadrant(test.p), "%d) %v", i, test.p)
	}
}

func TestSubContainsRoutedPoints(t *testing.T) {
	pts := []r2.Vec{
		{X: 0.5, Y: 0.5}, {X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 1},
		{X: 0.1, Y: 0.9}, {X: 0.9, Y: 0.1}, {X: 0.375, Y: 0.625},
	}

	for _, p := range pts {
		r := UnitSquare
		for depth := 0; depth < 20; depth++ {
			q := r.Quadrant(p)
			sub, ok := r.Sub(q)
			assert.True(t, ok)
			assert.True(t, sub.Contains(p), "%v not in %v (depth %d)", p, sub, depth)
			assert.Equal(t, r.Width()/2, sub.Width())
			r = sub
		}
	}
}

func TestSubCorners(t *testing.T) {
	tl, _ := UnitSquare.Sub(TopLeft)
	tr, _ := UnitSquare.Sub(TopRight)
	bl, _ := UnitSquare.Sub(BottomLeft)
	br, _ := UnitSquare.Sub(BottomRight)

	assert.Equal(t, Region{TL: r2.Vec{X: 0, Y: 1}, BR: r2.Vec{X: 0.5, Y: 0.5}}, tl)
	assert.Equal(t, Region{TL: r2.Vec{X: 0.5, Y: 1}, BR: r2.Vec{X: 1, Y: 0.5}}, tr)
	assert.Equal(t, Region{TL: r2.Vec{X: 0, Y: 0.5}, BR: r2.Vec{X: 0.5, Y: 0}}, bl)
	assert.Equal(t, Region{TL: r2.Vec{X: 0.5, Y: 0.5}, BR: r2.Vec{X: 1, Y: 0}}, br)

	_, ok := UnitSquare.Sub(QuadrantCount)
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	assert.True(t, UnitSquare.Contains(r2.Vec{X: 0, Y: 0}))
	assert.True(t, UnitSquare.Contains(r2.Vec{X: 1, Y: 1}))
	assert.False(t, UnitSquare.Contains(r2.Vec{X: -1e-12, Y: 0.5}))
	assert.False(t, UnitSquare.Contains(r2.Vec{X: 0.5, Y: 1.0000001}))
	assert.False(t, UnitSquare.Contains(r2.Vec{X: math.NaN(), Y: 0.5}))
}
