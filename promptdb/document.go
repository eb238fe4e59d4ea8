package promptdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// Document is the whole persisted state: category -> name -> text.
// Both levels keep insertion order.
type Document struct {
	order []string
	cats  map[string]*entries
}

type entries struct {
	order []string
	texts map[string]string
}

func NewDocument() *Document {
	return &Document{cats: make(map[string]*entries)}
}

// Len returns the number of categories.
func (d *Document) Len() int {
	return len(d.order)
}

// Categories returns the category keys in document order.
func (d *Document) Categories() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Document) HasCategory(category string) bool {
	_, ok := d.cats[category]
	return ok
}

// Names returns the prompt names of category in insertion order, or an
// empty slice when the category is absent.
func (d *Document) Names(category string) []string {
	e, ok := d.cats[category]
	if !ok {
		return []string{}
	}
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Text returns the stored text and whether the (category, name) pair exists.
func (d *Document) Text(category, name string) (string, bool) {
	e, ok := d.cats[category]
	if !ok {
		return "", false
	}
	text, ok := e.texts[name]
	return text, ok
}

// Set stores text under (category, name), appending new keys at the end.
// It reports whether the category had to be created.
func (d *Document) Set(category, name, text string) (created bool) {
	e, created := d.ensureCategory(category)
	if _, ok := e.texts[name]; !ok {
		e.order = append(e.order, name)
	}
	e.texts[name] = text
	return created
}

func (d *Document) ensureCategory(category string) (*entries, bool) {
	if d.cats == nil {
		d.cats = make(map[string]*entries)
	}
	if e, ok := d.cats[category]; ok {
		return e, false
	}
	e := &entries{texts: make(map[string]string)}
	d.cats[category] = e
	d.order = append(d.order, category)
	return e, true
}

// NameUnion returns every prompt name used in any category, deduplicated
// and sorted. It does not correspond to the contents of any one category.
func (d *Document) NameUnion() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, c := range d.order {
		for _, n := range d.cats[c].order {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func (d *Document) Clone() *Document {
	out := NewDocument()
	for _, c := range d.order {
		e, _ := out.ensureCategory(c)
		src := d.cats[c]
		e.order = append(e.order, src.order...)
		for n, t := range src.texts {
			e.texts[n] = t
		}
	}
	return out
}

// MarshalJSON writes the document as a compact JSON object in document order.
// HTML characters are not escaped.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, c); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		e := d.cats[c]
		for j, n := range e.order {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, n); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeString(&buf, e.texts[n]); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON replaces d with the decoded document. Anything other than an
// object of objects of strings fails with ErrCorrupt and leaves d untouched.
func (d *Document) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrCorrupt)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: top level is not an object", ErrCorrupt)
	}

	out := NewDocument()
	var shapeErr error
	root.ForEach(func(cat, body gjson.Result) bool {
		if !body.IsObject() {
			shapeErr = fmt.Errorf("%w: category %q is not an object", ErrCorrupt, cat.String())
			return false
		}
		out.ensureCategory(cat.String())
		body.ForEach(func(name, text gjson.Result) bool {
			if text.Type != gjson.String {
				shapeErr = fmt.Errorf("%w: prompt %q in %q is not a string", ErrCorrupt, name.String(), cat.String())
				return false
			}
			out.Set(cat.String(), name.String(), text.String())
			return true
		})
		return shapeErr == nil
	})
	if shapeErr != nil {
		return shapeErr
	}
	*d = *out
	return nil
}
