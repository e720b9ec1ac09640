package course

import (
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/aischool/richdoc/pkg/document"
)

// Filter selects courses with a boolean expression evaluated against
// [FilterEnv], for example `kind == "guide" && modules > 2`.
type Filter struct {
	Condition string

	once       sync.Once
	program    *vm.Program
	compileErr error
}

// FilterEnv is the environment a filter condition sees.
//
// The `expr` tag maps the field to the variable name. Without it, all
// variables start with capitalized letters.
type FilterEnv struct {
	ID        string   `expr:"id"`
	Title     string   `expr:"title"`
	Kind      string   `expr:"kind"`
	Modules   int      `expr:"modules"`
	Words     int      `expr:"words"`
	HasImages bool     `expr:"has_images"`
	Headings  []string `expr:"headings"`
}

// NewFilterEnv summarizes c for filtering.
func NewFilterEnv(c *Course) FilterEnv {
	env := FilterEnv{
		ID:      c.ID,
		Title:   c.Title,
		Kind:    string(c.Kind),
		Modules: len(c.Modules),
	}
	docs := []document.Document{c.Description}
	for _, m := range c.Modules {
		docs = append(docs, m.Content)
	}
	for _, d := range docs {
		env.Words += len(strings.Fields(document.PlainText(d)))
		document.Walk(d, func(n document.Node, _ document.Path) bool {
			switch n := n.(type) {
			case *document.Image:
				env.HasImages = true
			case *document.Heading:
				env.Headings = append(env.Headings, document.PlainText(document.Document{n}))
			}
			return true
		})
	}
	return env
}

func (f *Filter) Evaluate(env FilterEnv) (bool, error) {
	f.once.Do(func() {
		program, err := expr.Compile(
			f.Condition,
			expr.Env(FilterEnv{}),
			expr.AsBool(),
		)
		f.program, f.compileErr = program, errors.Wrap(err, "failed to compile filter program")
	})

	if f.program == nil {
		return false, f.compileErr
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, errors.Wrap(err, "failed to run filter program")
	}
	return result.(bool), nil
}

// Match reports whether c satisfies the filter. An empty condition
// matches everything.
func (f *Filter) Match(c *Course) (bool, error) {
	if strings.TrimSpace(f.Condition) == "" {
		return true, nil
	}
	return f.Evaluate(NewFilterEnv(c))
}
