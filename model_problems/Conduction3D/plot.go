package Conduction3D

import (
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

// Plot draws the objective convergence history while the optimization runs.
// Each call appends the newest segment of the convergence curve.
func (c *Conduction) Plot(graphDelay []time.Duration) {
	if !c.plotEnabled || len(c.History) < 2 {
		return
	}
	c.PlotOnce.Do(func() {
		yMax := float32(1.1 * c.History[0].Objective)
		c.chart = chart2d.NewChart2D(0, float32(c.MaxLoop), 0, yMax,
			1280, 1024, utils2.WHITE, utils2.BLACK)
	})
	n := len(c.History)
	seg := []float32{
		float32(c.History[n-2].Iter), float32(c.History[n-2].Objective),
		float32(c.History[n-1].Iter), float32(c.History[n-1].Objective),
	}
	c.chart.AddLine(seg, utils2.RED)
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}
