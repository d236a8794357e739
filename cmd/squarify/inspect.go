package main

import (
	"fmt"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/dixieflatline76/Squarify/pkg/squarer"
	"github.com/spf13/cobra"
)

func newInspectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print dimensions and the planned crop for individual images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			fm := squarer.NewFileManager(cfg)
			sq := squarer.NewSquarer(cfg)
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				w, h, err := fm.GetDimensions(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				geo, err := sq.Plan(w, h)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %dx%d, %s\n", path, w, h, describeError(err))
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", path, geo)
				if geo.Overflows() && cfg.Overflow != config.OverflowReject {
					fmt.Fprintf(out, "  taller than wide, %s policy applies\n", cfg.Overflow)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files cannot be processed", failed, len(args))
			}
			return nil
		},
	}
}
