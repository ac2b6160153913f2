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

	"github.com/spf13/cobra"

	"github.com/notargets/surfmesh/geometry"
)

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate [geometry file]",
	Short: "Check that surface geometry bounds a closed, consistently oriented volume",
	Long: `
Reads the geometry and reports degenerate triangles, non manifold edges, open edges
and adjacent triangles whose normals disagree. With --extended the winding of every
shared edge and repeated triangles are checked as well.

surfmesh validate --merge-tolerance 1e-6 part.stl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			surfaces []geometry.Surface
			errs     []geometry.GeometryError
			valid    bool
		)
		p, err := newPipeline(cmd, args)
		if err != nil {
			return
		}
		if surfaces, _, err = p.Load(); err != nil {
			return
		}
		valid, errs = p.Validate(surfaces)
		if extended, _ := cmd.Flags().GetBool("extended"); extended {
			v := p.NewValidator()
			winding := v.CheckWindingConsistency(surfaces)
			duplicates := v.CheckDuplicateTriangles(surfaces)
			if !winding || !duplicates {
				p.Logger.Printf("Extended checks:")
				p.LogDefects(v.Errors())
				errs = append(errs, v.Errors()...)
				valid = false
			}
		}
		if !valid {
			return fmt.Errorf("%s: %d geometry defects", p.Params.Geometry.File, len(errs))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ValidateCmd)
	ValidateCmd.Flags().BoolP("extended", "e", false, "also check edge winding and duplicate triangles")
}
