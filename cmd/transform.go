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
	"bufio"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/notargets/surfmesh/geometry/readers"
)

// TransformCmd represents the transform command
var TransformCmd = &cobra.Command{
	Use:   "transform [geometry file]",
	Short: "Scale, translate and rotate surface geometry and write it back out",
	Long: `
Applies the scale, then the translation, then the rotation and writes the result as
text or binary STL. Flags override the Geometry section of a parameter file.

surfmesh transform --scale 0.001 --rotate-axis 0,0,1 --rotate-degrees 90 -o out.stl part.stl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			flags     = cmd.Flags()
			output, _ = flags.GetString("output")
			binary, _ = flags.GetBool("binary")
		)
		if output == "" {
			return fmt.Errorf("must supply an output file (-o, --output)")
		}
		pp, err := loadParameters(args)
		if err != nil {
			return
		}
		g := &pp.Geometry
		if flags.Changed("scale") {
			g.Scale, _ = flags.GetFloat64("scale")
		}
		if flags.Changed("translate") {
			g.Translate, _ = flags.GetFloat64Slice("translate")
		}
		if flags.Changed("rotate-axis") {
			g.RotateAxis, _ = flags.GetFloat64Slice("rotate-axis")
		}
		if flags.Changed("rotate-degrees") {
			g.RotateDegrees, _ = flags.GetFloat64("rotate-degrees")
		}
		p, err := newPipelineFor(cmd, pp)
		if err != nil {
			return
		}
		surfaces, _, err := p.Load()
		if err != nil {
			return
		}

		if output, err = homedir.Expand(output); err != nil {
			return
		}
		f, err := os.Create(output)
		if err != nil {
			return
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w := bufio.NewWriter(f)
		if binary {
			err = readers.WriteSTLBinary(w, "surfmesh "+g.File, surfaces)
		} else {
			err = readers.WriteSTLText(w, surfaces)
		}
		if err != nil {
			return
		}
		if err = w.Flush(); err != nil {
			return
		}
		p.Logger.Printf("Wrote %s", output)
		return
	},
}

func init() {
	rootCmd.AddCommand(TransformCmd)
	TransformCmd.Flags().StringP("output", "o", "", "STL file to write")
	TransformCmd.Flags().BoolP("binary", "b", false, "write binary rather than text STL")
	TransformCmd.Flags().Float64("scale", 1, "uniform scale factor")
	TransformCmd.Flags().Float64Slice("translate", nil, "offset as x,y,z")
	TransformCmd.Flags().Float64Slice("rotate-axis", nil, "rotation axis through the origin as x,y,z")
	TransformCmd.Flags().Float64("rotate-degrees", 0, "rotation angle about the axis")
}
