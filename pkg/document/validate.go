package document

import "fmt"

// Validate reports violations of the structural invariants without
// changing d. Unknown block types are never errors.
func Validate(d Document) []error {
	if len(d) == 0 {
		return []error{&ValidationError{Message: "document is empty"}}
	}

	var errs []error
	for i, b := range d {
		errs = append(errs, validateBlock(b, Path{i})...)
	}
	return errs
}

func validateBlock(b Block, path Path) (errs []error) {
	children := Children(b)
	if len(children) == 0 {
		return []error{&ValidationError{Path: path, Message: "block has no children"}}
	}

	switch b := b.(type) {
	case *Image:
		if b.URL == "" {
			errs = append(errs, &ValidationError{Path: path, Message: "image without url"})
		}
		if t, ok := children[0].(*Text); len(children) != 1 || !ok || t.Text != "" {
			errs = append(errs, &ValidationError{Path: path, Message: "image must hold a single empty placeholder leaf"})
		}
		return errs
	case *List:
		for i, c := range children {
			if _, ok := c.(*ListItem); !ok {
				errs = append(errs, &ValidationError{
					Path:    path.Child(i),
					Message: fmt.Sprintf("%s holds %s, want %s", b.Type(), nodeName(c), TypeListItem),
				})
			}
		}
	}

	for i, c := range children {
		if cb, ok := c.(Block); ok {
			errs = append(errs, validateBlock(cb, path.Child(i))...)
		}
	}
	return errs
}

func nodeName(n Node) string {
	switch n := n.(type) {
	case *Text:
		return "text"
	case Block:
		if n.Type() == "" {
			return "untyped block"
		}
		return string(n.Type())
	}
	return "unknown node"
}
