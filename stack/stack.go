// Package stack composes several stored prompts into one string.
package stack

import (
	"sort"
	"strings"
)

// DefaultSeparator joins stacked prompts when the caller does not pick one.
const DefaultSeparator = ", "

// Slot selects one stored prompt. Slots are processed by ascending Index.
type Slot struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
}

// TextSource resolves a (category, name) pair to its text.
// *promptdb.Document satisfies it.
type TextSource interface {
	Text(category, name string) (string, bool)
}

// Compose resolves every enabled slot against src in ascending index order
// and joins the non-empty texts with sep. Slots sharing an index keep their
// relative input order. Slots with a missing key or empty text are skipped.
func Compose(src TextSource, slots []Slot, sep string) string {
	ordered := make([]Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	parts := make([]string, 0, len(ordered))
	for _, s := range ordered {
		if !s.Enabled || s.Category == "" || s.Name == "" {
			continue
		}
		text, _ := src.Text(s.Category, s.Name)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, sep)
}
