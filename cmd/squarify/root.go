package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/dixieflatline76/Squarify/pkg/squarer"
	"github.com/dixieflatline76/Squarify/util/log"
	"github.com/spf13/cobra"
)

// options holds flag values shared by all subcommands.
type options struct {
	configFile string
	verbose    bool

	root      string
	first     int
	last      int
	margin    int
	ext       string
	workers   int
	rateLimit float64
	overflow  string
	keepGoing bool
	lossy     bool
	quality   float32
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "squarify",
		Short: "Crop side margins off WEBP images and pad them to squares, in place",
		Long: `squarify visits the numbered folders 1 through 43 under the root directory,
removes 40 pixels from the left and right edge of every .webp image it finds,
centers the result vertically on a transparent square canvas and writes it
back over the original file.

Files are overwritten without a backup. Run "squarify plan" first to see what
would change.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.AppVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.root, "root", ".", "Directory containing the numbered folders")
	flags.IntVar(&opts.first, "first", config.DefaultFirstFolder, "First folder number")
	flags.IntVar(&opts.last, "last", config.DefaultLastFolder, "Last folder number")
	flags.IntVar(&opts.margin, "margin", config.DefaultMargin, "Pixels cropped from each side")
	flags.StringVar(&opts.ext, "ext", config.DefaultExtension, "File extension to process (case-insensitive)")
	flags.IntVarP(&opts.workers, "workers", "w", config.DefaultWorkers, "Files processed concurrently")
	flags.Float64Var(&opts.rateLimit, "rate", 0, "Maximum files per second, 0 for no limit")
	flags.StringVar(&opts.overflow, "overflow", string(config.OverflowCenter), "Crops taller than wide: center, reject or smart")
	flags.BoolVar(&opts.keepGoing, "keep-going", false, "Continue past files that fail")
	flags.BoolVar(&opts.lossy, "lossy", false, "Write lossy WEBP instead of lossless")
	flags.Float32Var(&opts.quality, "quality", config.DefaultQuality, "Lossy encoding quality (0-100)")

	rootCmd.AddCommand(newPlanCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))

	return rootCmd
}

// load builds the configuration: defaults, then the config file, then any
// flag set explicitly on the command line.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	log.SetDebug(o.verbose)

	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("first") {
		cfg.FirstFolder = o.first
	}
	if flags.Changed("last") {
		cfg.LastFolder = o.last
	}
	if flags.Changed("margin") {
		cfg.Margin = o.margin
	}
	if flags.Changed("ext") {
		cfg.Extension = o.ext
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("rate") {
		cfg.RateLimit = o.rateLimit
	}
	if flags.Changed("overflow") {
		cfg.Overflow = config.OverflowPolicy(o.overflow)
	}
	if flags.Changed("keep-going") {
		cfg.KeepGoing = o.keepGoing
	}
	if flags.Changed("lossy") {
		cfg.Encoding.Lossless = !o.lossy
	}
	if flags.Changed("quality") {
		cfg.Encoding.Quality = o.quality
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	log.Debugf("Config: %+v", *cfg)
	return cfg, nil
}

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err := squarer.NewBatch(cfg).Run(ctx)
	return err
}
