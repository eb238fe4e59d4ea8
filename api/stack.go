package api

import (
	"encoding/json"
	"net/http"

	"prompt-db/stack"
)

type slotRequest struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Enabled  *bool  `json:"enabled"`
}

// stackRequest accepts slots as an explicit list, as flat
// prompt_<N>_category/_name/_enabled fields, or both.
type stackRequest struct {
	Separator *string       `json:"separator"`
	Slots     []slotRequest `json:"slots"`
}

func (h *handler) stackPrompts(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	var req stackRequest
	var fields map[string]any
	if err == nil && body != nil {
		if err = json.Unmarshal(body, &req); err == nil {
			err = json.Unmarshal(body, &fields)
		}
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"stacked_prompts": ""})
		return
	}

	slots := stack.SlotsFromFields(fields)
	for _, s := range req.Slots {
		enabled := true
		if s.Enabled != nil {
			enabled = *s.Enabled
		}
		slots = append(slots, stack.Slot{Index: s.Index, Category: s.Category, Name: s.Name, Enabled: enabled})
	}
	sep := stack.DefaultSeparator
	if req.Separator != nil {
		sep = *req.Separator
	}

	// One load per request; a failed load composes from an empty document.
	doc, _ := h.store.Load()
	writeJSON(w, http.StatusOK, map[string]string{"stacked_prompts": stack.Compose(doc, slots, sep)})
}
