package main

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bak/pkg/config"
	"github.com/walteh/bak/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	sourceFlag   string
	destFlag     string
	verbose      bool
	fastMode     bool
	lowAnimation bool
	excludes     []string
	configFile   string
	debug        bool
)

// prompt asks the operator for a missing path. Swappable in tests.
var prompt = func(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(label)
}

// NewRootCmd creates the bak command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bak [source] [destination]",
		Short: "Copy a file or directory tree with a live progress animation",
		Long: `bak copies a file or a whole directory tree to a destination path,
showing progress while it works. By default every file is staged next
to its destination and atomically renamed into place, so an
interrupted run never leaves a half-written file at a final path.
Ctrl+C stops the run gracefully after the current file.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := buildRequest(cmd, args)
			if err != nil {
				return err
			}

			res, err := operation.Run(ctx, operation.Options{Request: *req})
			if err != nil {
				return errors.Errorf("running transfer: %w", err)
			}

			zerolog.Ctx(ctx).Debug().
				Stringer("phase", res.Phase).
				Int("copied", res.Copied).
				Int("failed", res.Failed).
				Msg("transfer finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "source path (wins over the positional)")
	cmd.Flags().StringVarP(&destFlag, "destination", "d", "", "destination path (wins over the positional)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a success line per copied file")
	cmd.Flags().BoolVar(&fastMode, "fast-mode", false, "copy directly, without temp-file staging")
	cmd.Flags().BoolVar(&lowAnimation, "low-animation", false, "update the progress line less often")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "glob pattern to skip, relative to the source root (repeatable)")
	cmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultsFile, "defaults file path")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

// buildRequest resolves the transfer request: defaults file first,
// then flags and positionals (named flag wins), then the interactive
// prompt for whichever path is still missing.
func buildRequest(cmd *cobra.Command, args []string) (*config.TransferRequest, error) {
	defaults, err := config.LoadDefaults(configFile)
	if err != nil {
		return nil, errors.Errorf("loading defaults: %w", err)
	}

	req := &config.TransferRequest{}
	defaults.Apply(req)

	req.Source = sourceFlag
	if req.Source == "" && len(args) > 0 {
		req.Source = args[0]
	}
	if req.Source == "" {
		if req.Source, err = prompt("Enter source path"); err != nil {
			return nil, errors.Errorf("reading source path: %w", err)
		}
	}

	req.Destination = destFlag
	if req.Destination == "" && len(args) > 1 {
		req.Destination = args[1]
	}
	if req.Destination == "" {
		if req.Destination, err = prompt("Enter destination path"); err != nil {
			return nil, errors.Errorf("reading destination path: %w", err)
		}
	}

	if cmd.Flags().Changed("verbose") {
		req.Verbose = verbose
	}
	if cmd.Flags().Changed("fast-mode") {
		req.FastMode = fastMode
	}
	if cmd.Flags().Changed("low-animation") {
		req.LowAnimation = lowAnimation
	}
	req.Excludes = append(req.Excludes, excludes...)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
