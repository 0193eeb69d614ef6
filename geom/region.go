package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Quadrant identifies one of the four children of a Region.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
	QuadrantCount
)

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case BottomLeft:
		return "BottomLeft"
	case BottomRight:
		return "BottomRight"
	}
	return fmt.Sprintf("Quadrant(%d)", int(q))
}

// Region is an axis-aligned square described by its top-left and
// bottom-right corners. y increases upwards, so TL.Y > BR.Y.
type Region struct {
	TL, BR r2.Vec
}

// UnitSquare is the region every simulation lives in.
var UnitSquare = Region{TL: r2.Vec{X: 0, Y: 1}, BR: r2.Vec{X: 1, Y: 0}}

// Width returns the side length of the region.
func (r Region) Width() float64 { return r.BR.X - r.TL.X }

// Mid returns the point where the region's two splitting lines cross.
func (r Region) Mid() r2.Vec {
	return r2.Vec{X: (r.TL.X + r.BR.X) / 2, Y: (r.TL.Y + r.BR.Y) / 2}
}

// Contains returns true if p is inside r. All four edges are inclusive, and
// NaN coordinates are never contained.
func (r Region) Contains(p r2.Vec) bool {
	return p.X >= r.TL.X && p.X <= r.BR.X && p.Y >= r.BR.Y && p.Y <= r.TL.Y
}

// Quadrant returns the child of r which p belongs to. Points on a splitting
// line go to the bottom and/or left child: p is bottom if p.Y <= Mid().Y and
// left if p.X <= Mid().X. This bias makes axis-aligned configurations
// reproducible, so don't change it.
func (r Region) Quadrant(p r2.Vec) Quadrant {
	mid := r.Mid()
	left, bottom := p.X <= mid.X, p.Y <= mid.Y
	switch {
	case left && bottom:
		return BottomLeft
	case left:
		return TopLeft
	case bottom:
		return BottomRight
	default:
		return TopRight
	}
}

// Sub returns the child region of r in quadrant q. The second return value
// is false if q isn't a valid quadrant.
func (r Region) Sub(q Quadrant) (Region, bool) {
	mid := r.Mid()
	switch q {
	case TopLeft:
		return Region{TL: r.TL, BR: mid}, true
	case TopRight:
		return Region{
			TL: r2.Vec{X: mid.X, Y: r.TL.Y}, BR: r2.Vec{X: r.BR.X, Y: mid.Y},
		}, true
	case BottomLeft:
		return Region{
			TL: r2.Vec{X: r.TL.X, Y: mid.Y}, BR: r2.Vec{X: mid.X, Y: r.BR.Y},
		}, true
	case BottomRight:
		return Region{TL: mid, BR: r.BR}, true
	}
	return Region{}, false
}

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", r.TL.X, r.BR.X, r.BR.Y, r.TL.Y)
}
