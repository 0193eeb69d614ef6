package diag

import (
	"math"

	"github.com/dgravesa/go-parallel/parallel"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/force"
	"github.com/phil-mansfield/gravtree/tree"
)

// Accuracy builds a tree over ps and returns the mean and maximum relative
// error of the tree forces against direct summation. Particles with zero
// exact force are skipped.
func Accuracy(
	ps []gravtree.Particle, theta, softening float64, workers int,
) (mean, max float64, err error) {
	if err := gravtree.ValidateAll(ps); err != nil {
		return 0, 0, err
	}
	if workers <= 0 {
		workers = 1
	}

	t := tree.New(tree.DefaultMaxDepth)
	if err := t.InsertAll(ps); err != nil {
		return 0, 0, err
	}

	exact := make([]r2.Vec, len(ps))
	force.Direct(ps, softening, workers, exact)

	evs := make([]*force.Evaluator, workers)
	for i := range evs {
		evs[i] = force.NewEvaluator(theta, softening)
	}
	relErr := make([]float64, len(ps))
	parallel.WithNumGoroutines(workers).For(len(ps), func(i, grID int) {
		f := evs[grID].ForceOn(t, i, ps[i].Pos())
		norm := r2.Norm(exact[i])
		if norm == 0 {
			relErr[i] = math.NaN()
			return
		}
		relErr[i] = r2.Norm(r2.Sub(f, exact[i])) / norm
	})

	n := 0
	for _, e := range relErr {
		if math.IsNaN(e) {
			continue
		}
		mean += e
		max = math.Max(max, e)
		n++
	}
	if n > 0 {
		mean /= float64(n)
	}
	return mean, max, nil
}
