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
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/surfmesh/pipeline"
)

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch [geometry file]",
	Short: "Validate surface geometry again every time it is saved",
	Long: `
Validates the geometry once, then again after every change to the file until
interrupted. Bursts of writes within the debounce interval are validated once.

surfmesh watch --debounce 500ms part.stl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd, args)
		if err != nil {
			return err
		}
		check := func(string) {
			if surfaces, _, err := p.Load(); err != nil {
				p.Logger.Printf("error: %v", err)
			} else {
				p.Validate(surfaces)
			}
		}
		debounce, _ := cmd.Flags().GetDuration("debounce")
		fw, err := pipeline.NewFileWatcher(debounce, p.Logger)
		if err != nil {
			return err
		}
		if err = fw.Watch([]string{p.Params.Geometry.File}, check); err != nil {
			return err
		}
		check(p.Params.Geometry.File)
		p.Logger.Printf("Watching %s", p.Params.Geometry.File)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return fw.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(WatchCmd)
	WatchCmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet interval after a change before validating")
}
