package diag

import (
	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gravtree"
)

// PlotScatter queues a scatter plot of the positions of ps, which will be
// saved to fname. Nothing is drawn until plt.Execute is called.
func PlotScatter(ps []gravtree.Particle, fname, title string) {
	xs, ys := Positions(ps)

	plt.Figure(plt.FigSize(8, 8))
	plt.Plot(xs, ys, "ok")
	plt.Title(title)
	plt.XLabel(`$X$`, plt.FontSize(16))
	plt.YLabel(`$Y$`, plt.FontSize(16))
	plt.XLim(0, 1)
	plt.YLim(0, 1)
	plt.SaveFig(fname)
}

// Positions returns the x and y coordinates of ps.
func Positions(ps []gravtree.Particle) (xs, ys []float64) {
	xs = make([]float64, len(ps))
	ys = make([]float64, len(ps))
	for i := range ps {
		xs[i], ys[i] = ps[i].X, ps[i].Y
	}
	return xs, ys
}
