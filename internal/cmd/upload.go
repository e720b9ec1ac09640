package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/media"
	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/editor"
)

func uploadCmd() *cobra.Command {
	var (
		into   string
		inline bool
	)

	cmd := cobra.Command{
		Use:   "upload <image>...",
		Short: "Upload images and optionally append them to a stored document.",
		Example: `Upload an image and print its URL:
  richdoc upload diagram.png

Append images to the end of a stored document as data URLs:
  richdoc upload --into intro --inline diagram.png photo.jpg
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inline && into == "" {
				return errors.New("--inline requires --into")
			}

			return invoke(func(s store.Store, u media.Uploader, opts []editor.Option, logger *zap.Logger) error {
				ctx := cmd.Context()
				files := make([]editor.File, 0, len(args))
				for _, name := range args {
					files = append(files, localFile(name))
				}

				if into == "" {
					for _, f := range files {
						url, err := uploadFile(cmd, u, f)
						if err != nil {
							return err
						}
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
					}
					return nil
				}

				doc, err := s.Get(ctx, into)
				if err != nil {
					return err
				}

				e := editor.New(doc, nil, opts...)
				defer e.Close()
				if end, ok := document.End(e.State().Doc); ok {
					e.Dispatch(editor.Select(*document.Collapse(end)))
				}

				if inline {
					e.InsertFiles(ctx, files...)
					e.Wait()
				} else {
					for _, f := range files {
						if err := e.UploadImage(ctx, f); err != nil {
							return err
						}
					}
				}

				logger.Info("appended images", zap.String("id", into), zap.Int("count", len(files)))
				return s.Set(ctx, into, e.Document())
			})
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Append the images to the stored document with this id.")
	cmd.Flags().BoolVar(&inline, "inline", false, "Embed the images as data URLs instead of uploading them.")

	return &cmd
}

func localFile(name string) editor.File {
	return editor.File{
		Name: filepath.Base(name),
		Open: func() (io.ReadCloser, error) { return os.Open(name) },
	}
}

func uploadFile(cmd *cobra.Command, u media.Uploader, f editor.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer func() { _ = rc.Close() }()

	url, err := u.Upload(cmd.Context(), f.Name, rc)
	return url, errors.Wrapf(err, "failed to upload %q", f.Name)
}
