package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/internal/ulid"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/markdown"
)

func importCmd() *cobra.Command {
	var (
		include          string
		excludes         []string
		respectGitignore bool
		useULID          bool
		jobs             int
	)

	cmd := cobra.Command{
		Use:   "import <path>...",
		Short: "Import Markdown files into the document store.",
		Long: `Import Markdown files into the document store.

Directories are walked recursively and files matching --include are
imported. Files ignored by .gitignore files in those directories and
files matching --exclude are skipped. Every file becomes a record named
after the file unless --ulid is set.`,
		Example: `Import all Markdown files from the docs directory:
  richdoc import docs

Import only the guides:
  richdoc import --include "guides/**.md" docs
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := glob.Compile(include, '/')
			if err != nil {
				return errors.Wrapf(err, "invalid include pattern %q", include)
			}

			files, err := collectFiles(args, pattern, ignoreOptions{gitignore: respectGitignore, excludes: excludes})
			if err != nil {
				return err
			}

			return invoke(func(s store.Store, logger *zap.Logger) error {
				logger.Info("importing files", zap.Int("count", len(files)))

				var (
					mu  sync.Mutex
					out = cmd.OutOrStdout()
				)

				g, ctx := errgroup.WithContext(cmd.Context())
				g.SetLimit(jobs)
				converter := markdown.New()

				for _, path := range files {
					path := path
					g.Go(func() error {
						data, err := os.ReadFile(path)
						if err != nil {
							return errors.Wrapf(err, "failed to read %q", path)
						}
						fm, doc, err := converter.ConvertWithFrontmatter(data)
						if err != nil {
							return errors.Wrapf(err, "failed to convert %q", path)
						}
						doc = withTitle(doc, fm)

						id := recordID(path)
						switch {
						case useULID:
							id = strings.ToLower(ulid.GenerateID())
						case fm != nil && fm.ID != "":
							id = fm.ID
						}
						if err := s.Set(ctx, id, doc); err != nil {
							return err
						}
						logger.Debug("imported file", zap.String("path", path), zap.String("id", id))

						mu.Lock()
						defer mu.Unlock()
						_, err = fmt.Fprintf(out, "%s\t%s\n", id, path)
						return err
					})
				}

				return g.Wait()
			})
		},
	}

	cmd.Flags().StringVar(&include, "include", "**.{md,markdown}", "Glob pattern of files to import from directories.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Gitignore-style pattern of files to skip. Can be repeated.")
	cmd.Flags().BoolVar(&respectGitignore, "git-ignore", true, "Skip files ignored by .gitignore.")
	cmd.Flags().BoolVar(&useULID, "ulid", false, "Name records with generated ids instead of file names.")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of files converted at the same time.")

	return &cmd
}

type ignoreOptions struct {
	gitignore bool
	excludes  []string
}

// matcher builds the ignore matcher for the directory root.
func (o ignoreOptions) matcher(root string) gitignore.Matcher {
	ignores := []gitignore.Pattern{gitignore.ParsePattern("/.git", nil)}
	if o.gitignore {
		ps, _ := gitignore.ReadPatterns(osfs.New(root), nil)
		ignores = append(ignores, ps...)
	}
	for _, pattern := range o.excludes {
		ignores = append(ignores, gitignore.ParsePattern(pattern, nil))
	}
	return gitignore.NewMatcher(ignores)
}

// collectFiles expands directories into the files matching pattern.
// Files named explicitly are always included.
func collectFiles(paths []string, pattern glob.Glob, opts ignoreOptions) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		matcher := opts.matcher(root)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if matcher.Match(strings.Split(rel, "/"), d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && pattern.Match(rel) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %q", root)
		}
	}
	return files, nil
}

// withTitle prepends the frontmatter title as a heading unless the
// document already starts with one.
func withTitle(doc document.Document, fm *markdown.Frontmatter) document.Document {
	if fm == nil || fm.Title == "" {
		return doc
	}
	if len(doc) > 0 && doc[0].Type() == document.TypeHeadingOne {
		return doc
	}
	if len(doc) == 1 && doc[0].Type() == document.TypeParagraph && document.PlainText(doc) == "" {
		doc = nil
	}
	heading := document.NewBlock(document.TypeHeadingOne, document.NewText(fm.Title))
	return append(document.Document{heading}, doc...)
}

var invalidIDChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// recordID derives a store id from a file name.
func recordID(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = invalidIDChars.ReplaceAllString(strings.ToLower(name), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return strings.ToLower(ulid.GenerateID())
	}
	return name
}
