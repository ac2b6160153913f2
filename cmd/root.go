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
	"log"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/surfmesh/InputParameters"
	"github.com/notargets/surfmesh/pipeline"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "surfmesh",
	Short: "Surface geometry to finite volume mesh",
	Long: `
Reads triangulated surface geometry (STL), checks that it bounds a volume, groups
its triangles into named boundary regions and builds a polyhedral mesh from it.

surfmesh validate part.stl
surfmesh regions -I pipeline.yaml
surfmesh mesh --angle-tolerance 20 part.stl`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch mode := strings.ToLower(viper.GetString("profile")); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.surfmesh.yaml)")
	pf.StringP("params", "I", "", "YAML pipeline parameter file, the geometry argument overrides its Geometry.File")
	pf.BoolP("verbose", "v", false, "log every defect, region and the mesh quality report")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	pf.IntP("parallelism", "p", 1, "number of goroutines for the per triangle and per face loops")
	pf.String("method", InputParameters.MethodNormal, "boundary extraction method: normal, connectivity or user")
	pf.Float64("angle-tolerance", 30, "degrees within which triangle normals belong to the same region")
	pf.Float64("normal-tolerance", 0.1, "minimum dot product between the normals of adjacent triangles")
	pf.Float64("merge-tolerance", 0, "grid pitch for merging nearby vertices, 0 compares positions exactly")
	pf.Bool("strict", false, "stop before meshing when the geometry has defects")
	for _, name := range []string{"params", "verbose", "profile", "parallelism", "method",
		"angle-tolerance", "normal-tolerance", "merge-tolerance", "strict"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".surfmesh" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".surfmesh")
	}

	viper.SetEnvPrefix("SURFMESH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

/*
loadParameters starts from the parameter file when one is given and the defaults otherwise. The geometry argument,
then any flag, environment variable or config file setting, override what the file says.
*/
func loadParameters(args []string) (pp *InputParameters.PipelineParameters, err error) {
	if fileName := viper.GetString("params"); fileName != "" {
		if pp, err = InputParameters.ReadFile(fileName); err != nil {
			return
		}
	} else {
		pp = InputParameters.NewPipelineParameters()
	}
	if len(args) > 0 {
		if pp.Geometry.File, err = homedir.Expand(args[0]); err != nil {
			return
		}
	}
	if viper.IsSet("parallelism") {
		pp.Validation.Parallelism = viper.GetInt("parallelism")
		pp.Mesh.Parallelism = viper.GetInt("parallelism")
	}
	if viper.IsSet("method") {
		pp.Boundary.Method = viper.GetString("method")
	}
	if viper.IsSet("angle-tolerance") {
		pp.Boundary.AngleTolerance = viper.GetFloat64("angle-tolerance")
	}
	if viper.IsSet("normal-tolerance") {
		pp.Validation.NormalTolerance = viper.GetFloat64("normal-tolerance")
	}
	if viper.IsSet("merge-tolerance") {
		pp.Validation.VertexMergeTolerance = viper.GetFloat64("merge-tolerance")
	}
	if viper.IsSet("strict") {
		pp.Validation.Strict = viper.GetBool("strict")
	}
	return
}

// newPipeline builds the pipeline for a command, logging to the command's output
func newPipeline(cmd *cobra.Command, args []string) (*pipeline.Pipeline, error) {
	pp, err := loadParameters(args)
	if err != nil {
		return nil, err
	}
	return newPipelineFor(cmd, pp)
}

func newPipelineFor(cmd *cobra.Command, pp *InputParameters.PipelineParameters) (p *pipeline.Pipeline, err error) {
	p = pipeline.New(pp, log.New(cmd.OutOrStdout(), "", 0))
	p.Verbose = viper.GetBool("verbose")
	if p.Verbose {
		pp.Print(cmd.OutOrStdout())
	}
	err = p.CheckParameters()
	return
}
