/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gotopo/InputParameters"
	"github.com/notargets/gotopo/model_problems/Conduction3D"
)

type Model3D struct {
	ICFile  string
	Graph   bool
	Delay   time.Duration
	Profile bool
	VTKFile string
}

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Three dimensional thermal conduction topology optimization",
	Long: `Optimizes the material distribution of a voxelized 3D conduction domain to
minimize thermal compliance under a volume fraction constraint`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("3D called")
		m3d := &Model3D{}
		m3d.ICFile, _ = cmd.Flags().GetString("inputFile")
		m3d.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		m3d.Delay = time.Duration(dr) * time.Millisecond
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		m3d.VTKFile, _ = cmd.Flags().GetString("vtk")
		ip := processInput(cmd, m3d)
		Run3D(m3d, ip)
	},
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	def := InputParameters.NewDefaults()
	ThreeDCmd.Flags().StringP("inputFile", "I", "", "YAML file of run parameters, flag values override it")
	ThreeDCmd.Flags().Int("nelx", def.Nelx, "number of elements in x")
	ThreeDCmd.Flags().Int("nely", def.Nely, "number of elements in y")
	ThreeDCmd.Flags().Int("nelz", def.Nelz, "number of elements in z")
	ThreeDCmd.Flags().Float64("volfrac", def.VolFrac, "target volume fraction in (0,1]")
	ThreeDCmd.Flags().Float64("penal", def.Penal, "SIMP penalization exponent, > 1")
	ThreeDCmd.Flags().Float64("rmin", def.RMin, "filter radius in element widths, >= 1")
	ThreeDCmd.Flags().String("filter", def.FilterType, "filter mode: density, sensitivity or none")
	ThreeDCmd.Flags().Int("maxIter", def.MaxIterations, "iteration limit")
	ThreeDCmd.Flags().Float64("tolx", def.TolX, "convergence tolerance on the density change")
	ThreeDCmd.Flags().BoolP("graph", "g", false, "display a convergence graph while computing")
	ThreeDCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	ThreeDCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
	ThreeDCmd.Flags().String("vtk", "", "write the final density field to this VTK file")
}

func processInput(cmd *cobra.Command, m3d *Model3D) (ip *InputParameters.InputParameters3D) {
	var (
		err error
	)
	ip = InputParameters.NewDefaults()
	if len(m3d.ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(m3d.ICFile); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	// Explicit flags win over the parameter file
	if cmd.Flags().Changed("nelx") {
		ip.Nelx, _ = cmd.Flags().GetInt("nelx")
	}
	if cmd.Flags().Changed("nely") {
		ip.Nely, _ = cmd.Flags().GetInt("nely")
	}
	if cmd.Flags().Changed("nelz") {
		ip.Nelz, _ = cmd.Flags().GetInt("nelz")
	}
	if cmd.Flags().Changed("volfrac") {
		ip.VolFrac, _ = cmd.Flags().GetFloat64("volfrac")
	}
	if cmd.Flags().Changed("penal") {
		ip.Penal, _ = cmd.Flags().GetFloat64("penal")
	}
	if cmd.Flags().Changed("rmin") {
		ip.RMin, _ = cmd.Flags().GetFloat64("rmin")
	}
	if cmd.Flags().Changed("filter") {
		ip.FilterType, _ = cmd.Flags().GetString("filter")
	}
	if cmd.Flags().Changed("maxIter") {
		ip.MaxIterations, _ = cmd.Flags().GetInt("maxIter")
	}
	if cmd.Flags().Changed("tolx") {
		ip.TolX, _ = cmd.Flags().GetFloat64("tolx")
	}
	if err = ip.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func Run3D(m3d *Model3D, ip *InputParameters.InputParameters3D) {
	if m3d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	c, err := Conduction3D.NewConduction(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	c.Run(m3d.Graph, m3d.Delay)
	if len(m3d.VTKFile) != 0 {
		if err = c.WriteVTK(m3d.VTKFile); err != nil {
			fmt.Printf("error writing VTK file: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("Wrote density field to [%s]\n", m3d.VTKFile)
	}
}
