package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/internal/tui"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/editor"
)

func editCmd() *cobra.Command {
	var create bool

	cmd := cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a stored document in the terminal.",
		Long: `Edit a stored document in the terminal.

Records holding a legacy plain string are upgraded when they are saved.
Press ctrl+s to save and esc to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(s store.Store, opts []editor.Option, logger *zap.Logger) error {
				ctx := cmd.Context()
				id := args[0]

				var value any
				doc, err := s.Get(ctx, id)
				switch {
				case err == nil:
					value = doc
				case errors.Is(err, store.ErrNotFound) && create:
					logger.Info("creating record", zap.String("id", id))
				default:
					return err
				}

				e := editor.New(value, nil, opts...)
				defer e.Close()

				save := func(doc document.Document) error {
					return s.Set(ctx, id, doc)
				}

				model := tui.NewModel(
					tui.NewDocumentModel(e, save),
					tui.MinimalKeyMap,
					tui.DefaultStyles,
					tui.WithTitle(id),
				)

				_, err = newProgram(cmd, model).Run()
				return errors.Wrap(err, "failed to run editor")
			})
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Start from an empty document if the record does not exist.")

	return &cmd
}
