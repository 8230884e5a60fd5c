package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputParameters(t *testing.T) {
	// Defaults pass validation
	{
		ip := NewDefaults()
		assert.NoError(t, ip.Validate())
	}
	// YAML parse overrides fields, leaves the rest at their prior values
	{
		ip := NewDefaults()
		data := []byte(`
Title: "Edge sink strip"
Nelx: 8
Nely: 4
Nelz: 2
VolFrac: 0.4
FilterType: density
BCs:
  FixedFaces: ["z-"]
  PointSources:
    - {I: 8, J: 4, K: 2, Q: 1}
`)
		assert.NoError(t, ip.Parse(data))
		assert.Equal(t, "Edge sink strip", ip.Title)
		assert.Equal(t, 8, ip.Nelx)
		assert.Equal(t, 0.4, ip.VolFrac)
		assert.Equal(t, "density", ip.FilterType)
		assert.Equal(t, []string{"z-"}, ip.BCs.FixedFaces)
		assert.Equal(t, 1, len(ip.BCs.PointSources))
		assert.Equal(t, 1., ip.BCs.PointSources[0].Q)
		assert.Equal(t, 3., ip.Penal) // untouched default
		assert.NoError(t, ip.Validate())
	}
	// Each precondition violation is rejected before setup
	{
		for _, mutate := range []func(*InputParameters3D){
			func(ip *InputParameters3D) { ip.Nelx = 0 },
			func(ip *InputParameters3D) { ip.Nely = -1 },
			func(ip *InputParameters3D) { ip.VolFrac = 0 },
			func(ip *InputParameters3D) { ip.VolFrac = 1.1 },
			func(ip *InputParameters3D) { ip.Penal = 1 },
			func(ip *InputParameters3D) { ip.RMin = 0.5 },
			func(ip *InputParameters3D) { ip.KMin = 0 },
			func(ip *InputParameters3D) { ip.KMin = 2; ip.K0 = 1 },
			func(ip *InputParameters3D) { ip.MaxIterations = 0 },
			func(ip *InputParameters3D) { ip.TolX = 0 },
			func(ip *InputParameters3D) { ip.InitialDensity = 1.5 },
			func(ip *InputParameters3D) { ip.MoveLimit = 0 },
			func(ip *InputParameters3D) { ip.Damping = 1.5 },
			func(ip *InputParameters3D) { ip.LambdaMax = -1 },
			func(ip *InputParameters3D) { ip.BisectTol = 0 },
			func(ip *InputParameters3D) { ip.MaxBisections = 0 },
		} {
			ip := NewDefaults()
			mutate(ip)
			assert.Error(t, ip.Validate())
		}
	}
}
