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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// RegionsCmd represents the regions command
var RegionsCmd = &cobra.Command{
	Use:   "regions [geometry file]",
	Short: "Group surface triangles into named boundary regions",
	Long: `
Groups triangles by normal direction (normal), by normal direction over connected
triangles (connectivity) or by the named directions of a parameter file (user), then
applies the parameter file's merges and renames.

surfmesh regions --method connectivity --angle-tolerance 15 part.stl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd, args)
		if err != nil {
			return err
		}
		surfaces, _, err := p.Load()
		if err != nil {
			return err
		}
		regions, err := p.ExtractRegions(surfaces)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "Region\tTriangles\tArea\tNormal\tCentroid")
		for _, r := range regions {
			fmt.Fprintf(tw, "%s\t%d\t%.6g\t%s\t%s\n", r.Name, r.NumTriangles(), r.TotalArea, r.AverageNormal, r.Centroid)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(RegionsCmd)
}
