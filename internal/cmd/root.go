package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aischool/richdoc/internal/log"
)

var (
	chdir   string
	verbose bool
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "richdoc",
		Short:         "Author, render and store rich-text documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if chdir != "" && chdir != "." {
				if err := os.Chdir(chdir); err != nil {
					return errors.Wrapf(err, "failed to change directory to %q", chdir)
				}
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Flush()
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVar(&chdir, "chdir", ".", "Switch to a different working directory before executing the command.")
	pflags.BoolVarP(&verbose, "verbose", "v", false, "Log debug messages to stderr or the configured log file.")

	cmd.AddCommand(courseCmd())
	cmd.AddCommand(editCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(fmtCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(printCmd())
	cmd.AddCommand(renderCmd())
	cmd.AddCommand(uploadCmd())
	cmd.AddCommand(validateCmd())

	return &cmd
}
