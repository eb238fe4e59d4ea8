package stack

import (
	"sort"
	"strconv"
	"strings"
)

const (
	fieldPrefix   = "prompt_"
	categoryField = "_category"
	nameField     = "_name"
	enabledField  = "_enabled"
)

// SlotsFromFields discovers slots in a flat field bag of the form
// prompt_<N>_category / prompt_<N>_name / prompt_<N>_enabled.
//
// A slot exists for every N that has a category field; indices need not be
// contiguous or sorted. A missing enabled flag means enabled. The result is
// sorted by index.
func SlotsFromFields(fields map[string]any) []Slot {
	var slots []Slot
	for key, value := range fields {
		idx, ok := slotIndex(key)
		if !ok {
			continue
		}
		prefix := fieldPrefix + strconv.Itoa(idx)
		slots = append(slots, Slot{
			Index:    idx,
			Category: asString(value),
			Name:     asString(fields[prefix+nameField]),
			Enabled:  asEnabled(fields[prefix+enabledField]),
		})
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Index < slots[j].Index
	})
	return slots
}

// slotIndex extracts N from "prompt_<N>_category". Only the canonical
// decimal spelling is accepted, so "prompt_01_category" is ignored.
func slotIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, fieldPrefix)
	if !ok {
		return 0, false
	}
	num, ok := strings.CutSuffix(rest, categoryField)
	if !ok || num == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 || strconv.Itoa(idx) != num {
		return 0, false
	}
	return idx, true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asEnabled(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return true
		}
		return b
	case float64:
		return t != 0
	default:
		return true
	}
}
