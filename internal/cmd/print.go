package cmd

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/internal/term"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

func printCmd() *cobra.Command {
	var (
		format    string
		fromStore bool
		width     int
	)

	cmd := cobra.Command{
		Use:   "print <file|id>",
		Short: "Print the plain text of a document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(s store.Store) error {
				var (
					doc document.Document
					err error
				)
				if fromStore {
					doc, err = s.Get(cmd.Context(), args[0])
				} else {
					doc, err = loadDocument(cmd, args[0], format)
				}
				if err != nil {
					return err
				}
				text := viewer.New(doc).Text()
				if w := printWidth(termFor(cmd), width); w > 0 {
					text = wordwrap.String(text, w)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			})
		},
	}

	addFormatFlag(&cmd, &format)
	cmd.Flags().BoolVar(&fromStore, "store", false, "Interpret the argument as a stored record id.")
	cmd.Flags().IntVar(&width, "width", -1, "Wrap lines at this width. 0 disables wrapping; by default terminals wrap at their width.")

	return &cmd
}

// printWidth resolves the --width flag. A negative width follows the
// terminal and disables wrapping for pipes.
func printWidth(t *term.Term, width int) int {
	if width >= 0 {
		return width
	}
	if !t.IsTTY() {
		return 0
	}
	return t.Width()
}
