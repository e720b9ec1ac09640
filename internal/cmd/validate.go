package cmd

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/aischool/richdoc/pkg/document"
)

func validateCmd() *cobra.Command {
	var (
		format  string
		lenient bool
	)

	cmd := cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that documents are well-formed.",
		Long: `Check that documents are well-formed.

JSON documents are decoded strictly: legacy strings and unknown shapes are
reported instead of being upgraded. Use --lenient to accept everything the
viewer accepts and only check the resulting tree.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := termFor(cmd)
			okColor := t.Color(color.FgGreen)
			failColor := t.Color(color.FgRed, color.Bold)

			invalid := 0
			for _, name := range args {
				err := validateInput(cmd, name, format, lenient)
				if err == nil {
					_, _ = okColor.Fprintf(t.Out(), "ok\t%s\n", name)
					continue
				}
				invalid++
				for _, e := range multierr.Errors(err) {
					_, _ = failColor.Fprintf(t.ErrOut(), "FAIL\t%s: ", name)
					_, _ = fmt.Fprintln(t.ErrOut(), e)
				}
			}

			if invalid > 0 {
				return errors.Errorf("%d of %d documents are invalid", invalid, len(args))
			}
			return nil
		},
	}

	addFormatFlag(&cmd, &format)
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Upgrade legacy values before validating.")

	return &cmd
}

func validateInput(cmd *cobra.Command, name, format string, lenient bool) error {
	data, err := readInput(cmd.Context(), cmd, name)
	if err != nil {
		return err
	}

	format = detectFormat(name, format)

	var doc document.Document
	if format == formatJSON && !lenient {
		doc, err = document.DecodeStrict(bytes.NewReader(data))
	} else {
		doc, err = parseDocument(data, format)
	}
	if err != nil {
		return err
	}

	return multierr.Combine(document.Validate(doc)...)
}
