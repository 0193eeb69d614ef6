/*Package force computes approximate gravitational forces by walking a
tree.Tree, along with the exact pairwise sums used to check them.

Every function here returns the "raw" force, m / (d + e)^3 * (x - x'), summed
over all other masses. Callers multiply by -G to get the physical force per
unit mass.
*/
package force

import (
	"math"

	"github.com/dgravesa/go-parallel/parallel"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/geom"
	"github.com/phil-mansfield/gravtree/tree"
)

// DefaultSoftening is the softening length used when none is configured.
const DefaultSoftening = 1e-3

// Evaluator computes the force on individual particles from a tree. An
// Evaluator holds a work stack and must not be shared between goroutines, but
// any number of Evaluators may walk the same tree concurrently as long as
// nothing is inserted into it.
type Evaluator struct {
	// Theta is the opening angle. A node is treated as a single mass when
	// width / distance <= Theta. Zero gives exact pairwise summation.
	Theta float64
	// Softening is added to every distance before it's cubed.
	Softening float64

	stack []int
}

// NewEvaluator returns an Evaluator with the given opening angle and
// softening length.
func NewEvaluator(theta, softening float64) *Evaluator {
	return &Evaluator{
		Theta: theta, Softening: softening, stack: make([]int, 0, 64),
	}
}

// ForceOn returns the raw force on the particle with index idx at position
// pos. A leaf holding idx itself is skipped. Identity is decided by index
// alone, so other particles sharing a mass or a coordinate with idx are
// always counted.
func (ev *Evaluator) ForceOn(t *tree.Tree, idx int, pos r2.Vec) r2.Vec {
	nodes := t.Nodes()
	f := r2.Vec{}

	ev.stack = append(ev.stack[:0], t.Root())
	for len(ev.stack) > 0 {
		i := ev.stack[len(ev.stack)-1]
		ev.stack = ev.stack[:len(ev.stack)-1]
		n := &nodes[i]

		if n.Kind == tree.Empty || (n.Kind == tree.Leaf && n.Body == idx) {
			continue
		}

		dx, dy := pos.X-n.Pos.X, pos.Y-n.Pos.Y
		d := math.Sqrt(dx*dx + dy*dy)

		if n.Kind == tree.Leaf || n.Region.Width()/d <= ev.Theta {
			s := n.Mass / cube(d+ev.Softening)
			f.X += s * dx
			f.Y += s * dy
			continue
		}

		// Pushed in reverse so that children are visited TL, TR, BL, BR.
		for q := geom.QuadrantCount - 1; q >= 0; q-- {
			if c := n.Children[q]; c != 0 {
				ev.stack = append(ev.stack, c)
			}
		}
	}

	return f
}

// Pair returns the raw force exerted on a particle at pos by a mass at other.
func Pair(pos, other r2.Vec, mass, softening float64) r2.Vec {
	dx, dy := pos.X-other.X, pos.Y-other.Y
	d := math.Sqrt(dx*dx + dy*dy)
	s := mass / cube(d+softening)
	return r2.Vec{X: s * dx, Y: s * dy}
}

// Direct writes the exact raw force on every particle in ps into out using
// O(N^2) pairwise summation split across the given number of goroutines.
func Direct(ps []gravtree.Particle, softening float64, workers int, out []r2.Vec) {
	if len(out) != len(ps) {
		panic("force.Direct: len(out) != len(ps)")
	}
	if workers <= 0 {
		workers = 1
	}

	parallel.WithNumGoroutines(workers).For(len(ps), func(i, _ int) {
		pos, f := ps[i].Pos(), r2.Vec{}
		for j := range ps {
			if j == i {
				continue
			}
			f = r2.Add(f, Pair(pos, ps[j].Pos(), ps[j].Mass, softening))
		}
		out[i] = f
	})
}

// Potential returns the softened potential energy of ps,
// -G sum_{i<j} m_i m_j / (d_ij + softening).
func Potential(ps []gravtree.Particle, G, softening float64, workers int) float64 {
	if workers <= 0 {
		workers = 1
	}

	partial := make([]float64, len(ps))
	parallel.WithNumGoroutines(workers).For(len(ps), func(i, _ int) {
		sum := 0.0
		for j := i + 1; j < len(ps); j++ {
			dx, dy := ps[i].X-ps[j].X, ps[i].Y-ps[j].Y
			d := math.Sqrt(dx*dx + dy*dy)
			sum += ps[i].Mass * ps[j].Mass / (d + softening)
		}
		partial[i] = sum
	})

	total := 0.0
	for _, x := range partial {
		total += x
	}
	return -G * total
}

func cube(x float64) float64 { return x * x * x }
