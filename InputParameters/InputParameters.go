package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gotopo/fem"
)

// Parameters obtained from the YAML input file
type InputParameters3D struct {
	Title          string     `yaml:"Title"`
	Nelx           int        `yaml:"Nelx"`
	Nely           int        `yaml:"Nely"`
	Nelz           int        `yaml:"Nelz"`
	VolFrac        float64    `yaml:"VolFrac"`
	Penal          float64    `yaml:"Penal"`
	RMin           float64    `yaml:"RMin"`
	FilterType     string     `yaml:"FilterType"` // "density", "sensitivity" or "none"
	MaxIterations  int        `yaml:"MaxIterations"`
	TolX           float64    `yaml:"TolX"`
	K0             float64    `yaml:"K0"`
	KMin           float64    `yaml:"KMin"`
	InitialDensity float64    `yaml:"InitialDensity"` // 0 means "seed at VolFrac"
	BCs            fem.BCSpec `yaml:"BCs"`
	// OC update controls
	MoveLimit     float64 `yaml:"MoveLimit"`
	Damping       float64 `yaml:"Damping"`
	LambdaMax     float64 `yaml:"LambdaMax"`
	BisectTol     float64 `yaml:"BisectTol"`
	MaxBisections int     `yaml:"MaxBisections"`
}

// NewDefaults returns the stock heat conduction case: a uniformly heated
// cube with a temperature sink patch centered on the x- face.
func NewDefaults() (ip *InputParameters3D) {
	ip = &InputParameters3D{
		Title:         "Heated cube with face sink",
		Nelx:          20,
		Nely:          20,
		Nelz:          20,
		VolFrac:       0.3,
		Penal:         3,
		RMin:          1.5,
		FilterType:    "sensitivity",
		MaxIterations: 200,
		TolX:          0.01,
		K0:            1,
		KMin:          1.e-3,
		BCs: fem.BCSpec{
			FixedFaces:  []string{"x-"},
			UniformHeat: 0.01,
		},
		MoveLimit:     0.2,
		Damping:       0.5,
		LambdaMax:     1.e9,
		BisectTol:     1.e-3,
		MaxBisections: 500,
	}
	return
}

func (ip *InputParameters3D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate rejects ill-posed configurations before any setup runs.
func (ip *InputParameters3D) Validate() (err error) {
	switch {
	case ip.Nelx < 1 || ip.Nely < 1 || ip.Nelz < 1:
		err = fmt.Errorf("grid dimensions must be positive, have %d,%d,%d", ip.Nelx, ip.Nely, ip.Nelz)
	case ip.VolFrac <= 0 || ip.VolFrac > 1:
		err = fmt.Errorf("VolFrac must lie in (0,1], have %g", ip.VolFrac)
	case ip.Penal <= 1:
		err = fmt.Errorf("Penal must exceed 1, have %g", ip.Penal)
	case ip.RMin < 1:
		err = fmt.Errorf("RMin must be at least 1, have %g", ip.RMin)
	case ip.KMin <= 0 || ip.KMin >= ip.K0:
		err = fmt.Errorf("conductivity bounds must satisfy 0 < KMin < K0, have KMin=%g, K0=%g", ip.KMin, ip.K0)
	case ip.MaxIterations < 1:
		err = fmt.Errorf("MaxIterations must be positive, have %d", ip.MaxIterations)
	case ip.TolX <= 0:
		err = fmt.Errorf("TolX must be positive, have %g", ip.TolX)
	case ip.InitialDensity < 0 || ip.InitialDensity > 1:
		err = fmt.Errorf("InitialDensity must lie in [0,1], have %g", ip.InitialDensity)
	case ip.MoveLimit <= 0 || ip.MoveLimit > 1:
		err = fmt.Errorf("MoveLimit must lie in (0,1], have %g", ip.MoveLimit)
	case ip.Damping <= 0 || ip.Damping > 1:
		err = fmt.Errorf("Damping must lie in (0,1], have %g", ip.Damping)
	case ip.LambdaMax <= 0:
		err = fmt.Errorf("LambdaMax must be positive, have %g", ip.LambdaMax)
	case ip.BisectTol <= 0:
		err = fmt.Errorf("BisectTol must be positive, have %g", ip.BisectTol)
	case ip.MaxBisections < 1:
		err = fmt.Errorf("MaxBisections must be positive, have %d", ip.MaxBisections)
	}
	return
}

func (ip *InputParameters3D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%d x %d x %d\t\t= Grid\n", ip.Nelx, ip.Nely, ip.Nelz)
	fmt.Printf("%8.5f\t\t= VolFrac\n", ip.VolFrac)
	fmt.Printf("%8.5f\t\t= Penal\n", ip.Penal)
	fmt.Printf("%8.5f\t\t= RMin\n", ip.RMin)
	fmt.Printf("[%s]\t\t= Filter Type\n", ip.FilterType)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("%8.5f\t\t= TolX\n", ip.TolX)
	faces := make([]string, len(ip.BCs.FixedFaces))
	copy(faces, ip.BCs.FixedFaces)
	sort.Strings(faces)
	fmt.Printf("BCs: fixed faces %v, %d fixed nodes, %d point sources, uniform heat %g\n",
		faces, len(ip.BCs.FixedNodes), len(ip.BCs.PointSources), ip.BCs.UniformHeat)
}
