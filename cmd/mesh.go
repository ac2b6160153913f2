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

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/notargets/surfmesh/geometry/readers"
	"github.com/notargets/surfmesh/pipeline"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh [geometry file]",
	Short: "Build a polyhedral mesh with boundary patches from surface geometry",
	Long: `
Runs validation, region extraction and mesh building, then prints the mesh statistics,
its quality and the per cell fields. The boundary patches can be written back out as
an STL file with one solid per patch.

surfmesh mesh -I pipeline.yaml --patches patches.stl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd, args)
		if err != nil {
			return err
		}
		res, err := p.Run()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		res.Mesh.PrintStatistics(out)
		fmt.Fprint(out, res.Quality.Report())
		res.Fields.Print(out)

		patchFile, _ := cmd.Flags().GetString("patches")
		if patchFile == "" {
			return nil
		}
		if patchFile, err = homedir.Expand(patchFile); err != nil {
			return err
		}
		f, err := os.Create(patchFile)
		if err != nil {
			return err
		}
		if err = readers.WriteSTLText(f, pipeline.PatchSurfaces(res.Mesh)); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("patches", "o", "", "write the boundary patches to this STL file, one solid per patch")
}
