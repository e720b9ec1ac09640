package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Resolve converts any persisted or in-memory value into a Document.
// It is the single hydration point for both the editor and the viewer:
//
//   - a string becomes one paragraph wrapping it,
//   - a non-empty Document (or []Block) is returned as is,
//   - a decoded JSON array is converted node by node,
//   - anything else, including nil and empty arrays, becomes Empty().
//
// Resolve never fails. Malformed nodes degrade instead of being rejected.
func Resolve(v any) Document {
	switch x := v.(type) {
	case nil:
		return Empty()
	case string:
		return FromString(x)
	case Document:
		if len(x) == 0 {
			return Empty()
		}
		return x
	case []Block:
		if len(x) == 0 {
			return Empty()
		}
		return Document(x)
	case json.RawMessage:
		doc, err := DecodeString(string(x))
		if err != nil {
			return Empty()
		}
		return doc
	case []any:
		d := &decoder{}
		doc, _ := d.document(x)
		if len(doc) == 0 {
			return Empty()
		}
		return doc
	}
	return Empty()
}

// Decode parses a persisted document. Besides a JSON array of nodes it
// accepts a JSON string (legacy plain text) and null. Only invalid JSON is
// reported as an error; shape problems are tolerated as in Resolve.
func Decode(r io.Reader) (Document, error) {
	v, err := decodeAny(r)
	if err != nil {
		return nil, err
	}
	return Resolve(v), nil
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (Document, error) {
	return Decode(strings.NewReader(s))
}

// DecodeStrict parses a JSON array of nodes and reports the first shape
// problem with its path instead of degrading.
func DecodeStrict(r io.Reader) (Document, error) {
	v, err := decodeAny(r)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, wrap("decode", "", ErrExpectedArray)
	}
	d := &decoder{strict: true}
	doc, err := d.document(arr)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, wrap("decode", "", ErrEmptyDocument)
	}
	return doc, nil
}

func decodeAny(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, wrap("decode", "", err)
	}
	return v, nil
}

// Encode writes d as JSON. It does not mutate d.
func Encode(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// EncodeString is a convenience wrapper for Encode.
func EncodeString(d Document) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnmarshalJSON hydrates a document field, upgrading legacy plain strings.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// MarshalJSON emits the wire format. An empty document is emitted in its
// canonical one-paragraph form.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		d = Empty()
	}
	out := make([]any, 0, len(d))
	for _, b := range d {
		out = append(out, encodeNode(b))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type decoder struct {
	strict bool
}

func (d *decoder) document(arr []any) (Document, error) {
	doc := make(Document, 0, len(arr))
	for i, item := range arr {
		path := fmt.Sprintf("[%d]", i)
		n, err := d.node(item, path)
		if err != nil {
			return nil, err
		}
		switch n := n.(type) {
		case nil:
		case Block:
			doc = append(doc, n)
		case *Text:
			if d.strict {
				return nil, wrap("node", path, ErrLeafAtRoot)
			}
			doc = append(doc, NewParagraph(n))
		}
	}
	return doc, nil
}

func (d *decoder) node(v any, path string) (Node, error) {
	switch x := v.(type) {
	case map[string]any:
		_, hasType := x["type"]
		_, hasChildren := x["children"]
		if hasType || hasChildren {
			return d.block(x, path)
		}
		return d.leaf(x, path)
	case string:
		if d.strict {
			return nil, wrap("node", path, ErrExpectedObject)
		}
		return &Text{Text: x}, nil
	}
	if d.strict {
		return nil, wrap("node", path, ErrExpectedObject)
	}
	return nil, nil
}

func (d *decoder) block(obj map[string]any, path string) (Node, error) {
	var (
		tag      string
		align    string
		url      string
		children []Node
		extra    = map[string]any{}
	)

	for k, v := range obj {
		switch k {
		case "type":
			s, ok := v.(string)
			if !ok {
				if d.strict {
					return nil, wrap("node", path+".type", ErrInvalidType)
				}
				extra[k] = v
				continue
			}
			tag = s
		case "align":
			s, ok := v.(string)
			if !ok {
				extra[k] = v
				continue
			}
			align = s
		case "url":
			s, ok := v.(string)
			if !ok {
				extra[k] = v
				continue
			}
			url = s
		case "children":
			arr, ok := v.([]any)
			if !ok {
				if d.strict {
					return nil, wrap("node", path+".children", ErrExpectedArray)
				}
				continue
			}
			for i, item := range arr {
				n, err := d.node(item, fmt.Sprintf("%s.children[%d]", path, i))
				if err != nil {
					return nil, err
				}
				if n != nil {
					children = append(children, n)
				}
			}
		default:
			extra[k] = v
		}
	}

	if len(children) == 0 {
		children = []Node{&Text{}}
	}

	var b Block
	if tag == "" {
		b = &Unknown{}
	} else {
		b = NewBlock(Type(tag))
	}
	if img, ok := b.(*Image); ok {
		img.URL = url
	} else if url != "" {
		extra["url"] = url
	}
	base := b.base()
	base.Align = align
	base.Children = children
	if len(extra) > 0 {
		base.Extra = extra
	}
	return b, nil
}

func (d *decoder) leaf(obj map[string]any, path string) (Node, error) {
	t := &Text{}
	extra := map[string]any{}
	for k, v := range obj {
		if k == "text" {
			s, ok := v.(string)
			if !ok {
				if d.strict {
					return nil, wrap("leaf", path+".text", ErrInvalidText)
				}
				extra[k] = v
				continue
			}
			t.Text = s
			continue
		}
		if m, ok := ParseMark(k); ok {
			if b, ok := v.(bool); ok {
				t.Marks = t.Marks.With(m, b)
				if !b {
					t.Unset = t.Unset.With(m, true)
				}
				continue
			}
		}
		extra[k] = v
	}
	if _, ok := obj["text"]; !ok && d.strict {
		return nil, wrap("leaf", path, ErrMissingText)
	}
	if len(extra) > 0 {
		t.Extra = extra
	}
	return t, nil
}

func encodeNode(n Node) map[string]any {
	switch n := n.(type) {
	case *Text:
		m := make(map[string]any, len(n.Extra)+5)
		for k, v := range n.Extra {
			m[k] = v
		}
		m["text"] = n.Text
		for _, mark := range AllMarks {
			switch {
			case n.Has(mark):
				m[string(mark)] = true
			case n.Unset.Has(mark):
				m[string(mark)] = false
			}
		}
		return m
	case Block:
		base := n.base()
		m := make(map[string]any, len(base.Extra)+4)
		for k, v := range base.Extra {
			m[k] = v
		}
		if t := n.Type(); t != "" {
			m["type"] = string(t)
		}
		if base.Align != "" {
			m["align"] = base.Align
		}
		if img, ok := n.(*Image); ok {
			m["url"] = img.URL
		}
		children := make([]any, 0, len(base.Children))
		for _, c := range base.Children {
			children = append(children, encodeNode(c))
		}
		m["children"] = children
		return m
	}
	return nil
}
