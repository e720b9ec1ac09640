package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aischool/richdoc/pkg/document"
)

func fmtCmd() *cobra.Command {
	var (
		format string
		write  bool
	)

	cmd := cobra.Command{
		Use:   "fmt <file>",
		Short: "Format a document into canonical JSON.",
		Long: `Format a document into canonical JSON.

The input may be a document, a legacy plain string, Markdown or plain text.
It is normalized and written to stdout. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if write && (name == "-" || strings.HasPrefix(name, "https://")) {
				return errors.Errorf("cannot write the result back to %q", name)
			}
			if write && detectFormat(name, format) != formatJSON {
				return errors.New("only JSON documents can be formatted in place")
			}

			doc, err := loadDocument(cmd, name, format)
			if err != nil {
				return err
			}
			doc = document.Normalize(doc)

			if !write {
				return errors.Wrap(document.Encode(cmd.OutOrStdout(), doc), "failed to write result")
			}
			return writeDocumentFile(name, doc)
		},
	}

	addFormatFlag(&cmd, &format)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result to the source file instead of stdout.")

	return &cmd
}
