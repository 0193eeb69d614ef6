/*Package tree implements the quadtree used to approximate gravitational
forces.

Nodes live in a single arena slice and are referred to by their index in it.
Insert walks the tree with an explicit work stack instead of recursing, so the
Go stack never grows with the depth of the tree, and Clear simply truncates the
arena. The tree is meant to be rebuilt from scratch every step: there is no
way to move or remove a particle once it has been inserted.
*/
package tree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/geom"
)

// DefaultMaxDepth is the depth used when New is given a non-positive value.
// Points a moderate distance from the corners of their region separate within
// ~60 levels, but tiny coordinates such as (1e-300, 1e-300) and
// (2e-300, 1e-300) need close to 1000. Such pairs are rejected with
// DegenerateGeometry at this depth even though float64 can tell them apart;
// pass a larger maxDepth to New (or MaxDepth in sim.Config) to accept them.
const DefaultMaxDepth = 256

// Kind is the state of a Node.
type Kind uint8

const (
	Empty Kind = iota
	Leaf
	Internal
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Leaf:
		return "Leaf"
	case Internal:
		return "Internal"
	}
	return "Unknown"
}

// Node is a single cell of the tree. For a Leaf, Pos and Mass are copies of
// the particle with index Body. For an Internal node they are the center of
// mass and total mass of everything below it and Body is -1.
type Node struct {
	Kind   Kind
	Region geom.Region
	Pos    r2.Vec
	Mass   float64
	Body   int
	Depth  int
	// Children holds arena indices ordered by geom.Quadrant. 0 means that
	// child doesn't exist: the root is never anyone's child.
	Children [geom.QuadrantCount]int
}

// pending is a point mass waiting to be placed below node.
type pending struct {
	node int
	pos  r2.Vec
	mass float64
	body int
}

// Tree is a quadtree over the unit square. A Tree is not safe for concurrent
// use while it's being modified, but any number of goroutines may read it
// once building has finished.
type Tree struct {
	nodes    []Node
	stack    []pending
	maxDepth int
	leaves   int
}

// New returns an empty tree bound to the unit square. Insertions which would
// need more than maxDepth levels fail with DegenerateGeometry.
func New(maxDepth int) *Tree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &Tree{maxDepth: maxDepth}
	t.Clear()
	return t
}

// Clear discards every node and leaf and resets the tree to an empty root
// bound to the unit square. The arena's memory is kept for the next build.
func (t *Tree) Clear() {
	if t.nodes == nil {
		t.nodes = make([]Node, 1, 64)
	}
	t.nodes = t.nodes[:1]
	t.nodes[0] = Node{Kind: Empty, Region: geom.UnitSquare, Body: -1}
	t.stack = t.stack[:0]
	t.leaves = 0
}

// Insert adds the particle with index idx, position pos and mass mass to the
// tree. Every internal node on the path to the particle's leaf has its
// aggregate updated in passing.
//
// If Insert returns an error the tree is left partially updated and must be
// cleared before it's used again.
func (t *Tree) Insert(idx int, pos r2.Vec, mass float64) error {
	if mass <= 0 || math.IsInf(mass, 0) || math.IsNaN(mass) {
		return insertError(gravtree.InvalidInput, idx,
			"mass must be positive and finite, but is %g", mass)
	}

	t.stack = append(t.stack[:0], pending{0, pos, mass, idx})

	for len(t.stack) > 0 {
		p := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		n := &t.nodes[p.node]
		if !n.Region.Contains(p.pos) {
			return insertError(gravtree.InvalidInput, p.body,
				"position (%g, %g) is outside of %v", p.pos.X, p.pos.Y,
				n.Region)
		}

		switch n.Kind {
		case Empty:
			n.Kind, n.Pos, n.Mass, n.Body = Leaf, p.pos, p.mass, p.body
			t.leaves++

		case Internal:
			n.fold(p.pos, p.mass)
			child, err := t.child(p.node, p.pos, p.body)
			if err != nil {
				return err
			}
			p.node = child
			t.stack = append(t.stack, p)

		case Leaf:
			if n.Pos == p.pos {
				return insertError(gravtree.DegenerateGeometry, p.body,
					"particle shares position (%g, %g) with particle %d",
					p.pos.X, p.pos.Y, n.Body)
			} else if n.Depth >= t.maxDepth {
				return insertError(gravtree.DegenerateGeometry, p.body,
					"particle can't be separated from particle %d within "+
						"%d levels", n.Body, t.maxDepth)
			}

			old := pending{p.node, n.Pos, n.Mass, n.Body}
			n.Kind, n.Body = Internal, -1
			n.fold(p.pos, p.mass)
			t.leaves--

			// n is invalid once child() grows the arena.
			oldChild, err := t.child(p.node, old.pos, old.body)
			if err != nil {
				return err
			}
			newChild, err := t.child(p.node, p.pos, p.body)
			if err != nil {
				return err
			}

			// The new point is placed first, then the old payload.
			old.node, p.node = oldChild, newChild
			t.stack = append(t.stack, old, p)

		default:
			return insertError(gravtree.InternalInvariant, p.body,
				"node %d has unknown kind %d", p.node, n.Kind)
		}
	}

	return nil
}

// InsertAll inserts every particle in ps, using its index in ps as its
// identity.
func (t *Tree) InsertAll(ps []gravtree.Particle) error {
	for i := range ps {
		if err := t.Insert(i, ps[i].Pos(), ps[i].Mass); err != nil {
			return err
		}
	}
	return nil
}

// child returns the index of the child of parent which pos belongs to,
// creating it if necessary.
func (t *Tree) child(parent int, pos r2.Vec, body int) (int, error) {
	q := t.nodes[parent].Region.Quadrant(pos)
	if q < 0 || q >= geom.QuadrantCount {
		return 0, insertError(gravtree.InternalInvariant, body,
			"position (%g, %g) routed to %v", pos.X, pos.Y, q)
	}

	if idx := t.nodes[parent].Children[q]; idx != 0 {
		return idx, nil
	}

	region, ok := t.nodes[parent].Region.Sub(q)
	if !ok {
		return 0, insertError(gravtree.InternalInvariant, body,
			"no sub-region for %v", q)
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Kind: Empty, Region: region, Body: -1,
		Depth: t.nodes[parent].Depth + 1,
	})
	t.nodes[parent].Children[q] = idx
	return idx, nil
}

// fold adds a point mass to n's aggregate.
func (n *Node) fold(pos r2.Vec, mass float64) {
	total := n.Mass + mass
	n.Pos.X = (n.Pos.X*n.Mass + pos.X*mass) / total
	n.Pos.Y = (n.Pos.Y*n.Mass + pos.Y*mass) / total
	n.Mass = total
}

// Root returns the arena index of the root node.
func (t *Tree) Root() int { return 0 }

// Node returns a copy of the node at index i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Nodes returns the arena itself. It is only valid until the next call to
// Insert or Clear and must not be modified.
func (t *Tree) Nodes() []Node { return t.nodes }

// Len returns the number of nodes in the tree, including empty ones.
func (t *Tree) Len() int { return len(t.nodes) }

// Leaves returns the number of leaves in the tree.
func (t *Tree) Leaves() int { return t.leaves }

// Depth returns the depth of the deepest node. The root has depth 0.
func (t *Tree) Depth() int {
	max := 0
	for i := range t.nodes {
		if t.nodes[i].Depth > max {
			max = t.nodes[i].Depth
		}
	}
	return max
}

// MaxDepth returns the depth limit the tree was created with.
func (t *Tree) MaxDepth() int { return t.maxDepth }

func insertError(
	kind gravtree.Kind, body int, format string, args ...interface{},
) error {
	err := gravtree.Errorf(kind, format, args...).(*gravtree.Error)
	err.Op, err.Particle = "tree.Insert", body
	return err
}
