package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/internal/version"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

func exportCmd() *cobra.Command {
	var (
		pattern   string
		skipMedia bool
		open      bool
	)

	cmd := cobra.Command{
		Use:   "export <dir>",
		Short: "Render stored documents into a directory of HTML files.",
		Long: `Render stored documents into a directory of HTML files.

Every record becomes <id>.html and an index.html links to all of them.
Uploaded media is copied next to the pages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]

			return invoke(func(cfg *config.Config, s store.Store, opts []viewer.Option, logger *zap.Logger) error {
				ids, err := s.List(cmd.Context(), pattern)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(out, 0o755); err != nil {
					return errors.Wrapf(err, "failed to create %q", out)
				}

				var index bytes.Buffer
				fmt.Fprintf(&index, "<meta name=\"generator\" content=\"%s\">\n<ul>", util.EscapeHTML([]byte(version.Generator())))
				for _, id := range ids {
					doc, err := s.Get(cmd.Context(), id)
					if err != nil {
						return err
					}

					var page bytes.Buffer
					if err := viewer.New(doc, opts...).Render(&page); err != nil {
						return errors.Wrapf(err, "failed to render %s", id)
					}
					if err := os.WriteFile(filepath.Join(out, id+".html"), page.Bytes(), 0o644); err != nil {
						return errors.Wrapf(err, "failed to write %s", id)
					}

					escaped := util.EscapeHTML([]byte(id))
					fmt.Fprintf(&index, `<li><a href="%s.html">%s</a></li>`, escaped, escaped)
				}
				_, _ = index.WriteString("</ul>\n")

				indexPath := filepath.Join(out, "index.html")
				if err := os.WriteFile(indexPath, index.Bytes(), 0o644); err != nil {
					return errors.Wrap(err, "failed to write index")
				}

				if !skipMedia {
					if err := copyMedia(cfg.Media.Dir, filepath.Join(out, filepath.Base(cfg.Media.BaseURL))); err != nil {
						return err
					}
				}

				logger.Info("exported records", zap.String("dir", out), zap.Int("count", len(ids)))
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d documents to %s\n", len(ids), out); err != nil {
					return err
				}

				if open {
					return errors.Wrap(browser.OpenFile(indexPath), "failed to open the index")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern of record ids to export.")
	cmd.Flags().BoolVar(&skipMedia, "skip-media", false, "Do not copy uploaded media.")
	cmd.Flags().BoolVar(&open, "open", false, "Open the index in the default browser.")

	return &cmd
}

// copyMedia copies the media directory to dst. A missing source is not an
// error since nothing was uploaded yet.
func copyMedia(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	err := copy.Copy(src, dst, copy.Options{
		PreserveTimes: true,
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Skip },
	})
	return errors.Wrapf(err, "failed to copy media from %q", src)
}
