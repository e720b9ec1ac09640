package cmd

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/config/autoconfig"
	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

func renderCmd() *cobra.Command {
	var (
		format     string
		fromStore  bool
		noSanitize bool
	)

	cmd := cobra.Command{
		Use:   "render <file|id>",
		Short: "Render a document to HTML.",
		Example: `Render a JSON document:
  richdoc render notes.json

Files are rendered with the richdoc.yaml found next to them, or in any
directory above them, taking precedence over the root configuration.

Render a stored record without sanitizing the markup:
  richdoc render --store --no-sanitize 01HF7BT3HEQBTBM9SSSSSSSSSS
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(s store.Store, loader *config.Loader, c *config.Config, opts []viewer.Option, logger *zap.Logger) error {
				var (
					doc document.Document
					err error
				)
				if fromStore {
					doc, err = s.Get(cmd.Context(), args[0])
				} else {
					doc, err = loadDocument(cmd, args[0], format)
					if err == nil {
						var cfg *config.Config
						cfg, err = pathConfig(loader, c, args[0])
						if cfg != nil {
							opts = autoconfig.ViewerOptions(cfg, logger)
						}
					}
				}
				if err != nil {
					return err
				}
				if noSanitize {
					opts = []viewer.Option{viewer.WithLogger(logger)}
				}

				var buf bytes.Buffer
				if err := viewer.New(doc, opts...).Render(&buf); err != nil {
					return errors.Wrap(err, "failed to render document")
				}
				_ = buf.WriteByte('\n')
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return errors.WithStack(err)
			})
		},
	}

	addFormatFlag(&cmd, &format)
	cmd.Flags().BoolVar(&fromStore, "store", false, "Interpret the argument as a stored record id.")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "Skip HTML sanitization even if the configuration enables it.")

	return &cmd
}
