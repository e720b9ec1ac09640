package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/fatih/color"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/pkg/course"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

func courseCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "course",
		Short: "Work with course, guide and workshop records.",
		Long: `Work with course, guide and workshop records.

Records are JSON files whose description and module contents are documents.
Older records store those fields as plain strings; they are upgraded when
a record is read.`,
	}

	cmd.AddCommand(courseRenderCmd())
	cmd.AddCommand(courseUpgradeCmd())
	cmd.AddCommand(courseValidateCmd())
	cmd.AddCommand(courseListCmd())

	return &cmd
}

func loadCourse(cmd *cobra.Command, name string) (*course.Course, error) {
	data, err := readInput(cmd.Context(), cmd, name)
	if err != nil {
		return nil, err
	}
	c, err := course.Decode(bytes.NewReader(data))
	return c, errors.Wrapf(err, "failed to load %q", name)
}

func courseRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Render a course record to HTML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(opts []viewer.Option) error {
				c, err := loadCourse(cmd, args[0])
				if err != nil {
					return err
				}
				if err := course.Render(cmd.OutOrStdout(), c, opts...); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout())
				return err
			})
		},
	}
}

func courseUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <file>",
		Short: "Rewrite a course record with every field in the document format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCourse(cmd, args[0])
			if err != nil {
				return err
			}
			return course.Encode(cmd.OutOrStdout(), c)
		},
	}
}

func courseValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check course records and their documents.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := termFor(cmd)
			failColor := t.Color(color.FgRed, color.Bold)

			invalid := 0
			for _, name := range args {
				c, err := loadCourse(cmd, name)
				if err == nil {
					err = course.Validate(c)
				}
				if err == nil {
					_, _ = t.Color(color.FgGreen).Fprintf(t.Out(), "ok\t%s\n", name)
					continue
				}
				invalid++
				for _, e := range multierr.Errors(err) {
					_, _ = failColor.Fprintf(t.ErrOut(), "FAIL\t%s: ", name)
					_, _ = fmt.Fprintln(t.ErrOut(), e)
				}
			}
			if invalid > 0 {
				return errors.Errorf("%d of %d records are invalid", invalid, len(args))
			}
			return nil
		},
	}
}

func courseListCmd() *cobra.Command {
	var (
		where   string
		include string
	)

	cmd := cobra.Command{
		Use:   "list <path>...",
		Short: "List course records matching a filter.",
		Long: `List course records matching a filter.

The --where condition is an expression evaluated for every record. It can
use the variables id, title, kind, modules, words, has_images and headings.`,
		Example: `List guides with more than two modules:
  richdoc course list --where 'kind == "guide" && modules > 2' courses
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := glob.Compile(include, '/')
			if err != nil {
				return errors.Wrapf(err, "invalid include pattern %q", include)
			}
			files, err := collectFiles(args, pattern, ignoreOptions{})
			if err != nil {
				return err
			}

			return invoke(func(logger *zap.Logger) error {
				filter := &course.Filter{Condition: where}

				t := termFor(cmd)
				table := tableprinter.New(t.Out(), t.IsTTY(), t.Width())
				table.AddField(strings.ToUpper("ID"))
				table.AddField(strings.ToUpper("Kind"))
				table.AddField(strings.ToUpper("Title"))
				table.AddField(strings.ToUpper("Modules"))
				table.AddField(strings.ToUpper("File"))
				table.EndRow()

				for _, name := range files {
					c, err := loadCourse(cmd, name)
					if err != nil {
						logger.Info("skipping file", zap.String("path", name), zap.Error(err))
						continue
					}
					ok, err := filter.Match(c)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
					table.AddField(c.ID)
					table.AddField(string(c.Kind))
					table.AddField(c.Title)
					table.AddField(strconv.Itoa(len(c.Modules)))
					table.AddField(name)
					table.EndRow()
				}

				return errors.WithStack(table.Render())
			})
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Expression records must satisfy.")
	cmd.Flags().StringVar(&include, "include", "**.json", "Glob pattern of files to read from directories.")

	return &cmd
}
