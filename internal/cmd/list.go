package cmd

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/pkg/document"
)

type recordSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Blocks  int    `json:"blocks"`
	Words   int    `json:"words"`
	Images  int    `json:"images"`
	Invalid bool   `json:"invalid,omitempty"`
}

func summarize(id string, doc document.Document) recordSummary {
	text := document.PlainText(doc)
	title, _, _ := strings.Cut(text, "\n")

	s := recordSummary{
		ID:      id,
		Title:   title,
		Blocks:  len(doc),
		Words:   len(strings.Fields(text)),
		Invalid: len(document.Validate(doc)) > 0,
	}
	document.Walk(doc, func(n document.Node, _ document.Path) bool {
		if _, ok := n.(*document.Image); ok {
			s.Images++
		}
		return true
	})
	return s
}

func listCmd() *cobra.Command {
	var format string

	cmd := cobra.Command{
		Use:     "list [pattern]",
		Aliases: []string{"ls"},
		Short:   "List stored documents.",
		Long: `List stored documents by optionally providing a glob pattern
matched against record ids.`,
		Example: `List all records starting with the "intro-" prefix:
  richdoc list "intro-*"
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(func(s store.Store, logger *zap.Logger) error {
				pattern := ""
				if len(args) > 0 {
					pattern = args[0]
				}

				ids, err := s.List(cmd.Context(), pattern)
				if err != nil {
					return err
				}
				logger.Info("found records", zap.Int("count", len(ids)))

				summaries := make([]recordSummary, 0, len(ids))
				for _, id := range ids {
					doc, err := s.Get(cmd.Context(), id)
					if err != nil {
						return err
					}
					summaries = append(summaries, summarize(id, doc))
				}

				switch format {
				case "json":
					return renderSummariesAsJSON(cmd, summaries)
				case "table":
					return renderSummariesAsTable(cmd, summaries)
				default:
					return errors.Errorf("invalid format: %s", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")

	return &cmd
}

func renderSummariesAsTable(cmd *cobra.Command, summaries []recordSummary) error {
	t := termFor(cmd)
	table := tableprinter.New(t.Out(), t.IsTTY(), t.Width())

	table.AddField(strings.ToUpper("ID"))
	table.AddField(strings.ToUpper("Title"))
	table.AddField(strings.ToUpper("Blocks"))
	table.AddField(strings.ToUpper("Words"))
	table.AddField(strings.ToUpper("Images"))
	table.EndRow()

	for _, s := range summaries {
		id := s.ID
		if s.Invalid {
			id += "!"
		}
		table.AddField(id)
		table.AddField(s.Title)
		table.AddField(strconv.Itoa(s.Blocks))
		table.AddField(strconv.Itoa(s.Words))
		table.AddField(strconv.Itoa(s.Images))
		table.EndRow()
	}

	return errors.WithStack(table.Render())
}

func renderSummariesAsJSON(cmd *cobra.Command, summaries []recordSummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(
		jsonpretty.Format(cmd.OutOrStdout(), bytes.NewReader(raw), "  ", false),
	)
}
