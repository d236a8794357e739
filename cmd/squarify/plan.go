package main

import (
	"fmt"
	"io"

	"github.com/dixieflatline76/Squarify/pkg/squarer"
	"github.com/spf13/cobra"
)

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would do without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg.DryRun = true
			cfg.KeepGoing = true

			summary, err := squarer.NewBatch(cfg).Run(cmd.Context())
			printResults(cmd.OutOrStdout(), summary.Results)
			fmt.Fprintf(cmd.OutOrStdout(), "%d files in %d folders, %d would fail\n",
				summary.Files, summary.Folders, summary.Failed)
			return err
		},
	}
}

func printResults(w io.Writer, results []squarer.Result) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", res.Path, describeError(res.Err))
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", res.Path, res.Geometry)
	}
}

func describeError(err error) string {
	if squarer.IsGeometryError(err) {
		return "cannot square: " + err.Error()
	}
	return err.Error()
}
