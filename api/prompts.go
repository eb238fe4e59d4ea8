package api

import (
	"fmt"
	"net/http"
	"strings"

	"prompt-db/feed"
)

type listRequest struct {
	Category string `json:"category"`
	Pattern  string `json:"pattern"`
}

type entryRequest struct {
	Category   string `json:"category"`
	PromptName string `json:"prompt_name"`
	PromptText string `json:"prompt_text"`
}

func hasKeys(category, name string) bool {
	return strings.TrimSpace(category) != "" && strings.TrimSpace(name) != ""
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"categories": {}})
		return
	}
	// Read failures are logged by the store and degrade to an empty list.
	cats, _ := h.store.Categories()
	cats, err := filterNames(cats, req.Pattern)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"categories": {}})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}

func (h *handler) listPrompts(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"prompts": {}})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusOK, map[string][]string{"prompts": {}})
		return
	}
	names, _ := h.store.Names(req.Category)
	names, err := filterNames(names, req.Pattern)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"prompts": {}})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"prompts": names})
}

// listNames serves the flat name picker: every name in any category.
func (h *handler) listNames(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"names": {}})
		return
	}
	names, _ := h.store.NameUnion()
	names, err := filterNames(names, req.Pattern)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"names": {}})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

func (h *handler) getText(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"prompt_text": ""})
		return
	}
	if req.Category == "" || req.PromptName == "" {
		writeJSON(w, http.StatusOK, map[string]string{"prompt_text": ""})
		return
	}
	text, _ := h.store.Text(req.Category, req.PromptName)
	writeJSON(w, http.StatusOK, map[string]string{"prompt_text": text})
}

func (h *handler) savePrompt(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, result{Message: msgInvalidBody})
		return
	}
	if !hasKeys(req.Category, req.PromptName) {
		writeJSON(w, http.StatusOK, result{Message: msgRequired})
		return
	}

	created, err := h.store.SetText(req.Category, req.PromptName, req.PromptText)
	if err != nil {
		h.log.Error("save prompt failed", "category", req.Category, "name", req.PromptName, "error", err)
		writeJSON(w, http.StatusOK, result{Message: storageMessage(err)})
		return
	}
	h.publish(feed.TypeSaved, req.Category, req.PromptName, created)

	msg := fmt.Sprintf("Saved prompt '%s'", req.PromptName)
	if created {
		msg += fmt.Sprintf(" in new category '%s'", req.Category)
	}
	writeJSON(w, http.StatusOK, result{Success: true, Message: msg})
}

func (h *handler) createPrompt(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, result{Message: msgInvalidBody})
		return
	}
	if !hasKeys(req.Category, req.PromptName) {
		writeJSON(w, http.StatusOK, result{Message: msgRequired})
		return
	}

	existed, err := h.store.CreateEntry(req.Category, req.PromptName)
	if err != nil {
		h.log.Error("create prompt failed", "category", req.Category, "name", req.PromptName, "error", err)
		writeJSON(w, http.StatusOK, result{Message: storageMessage(err)})
		return
	}
	h.publish(feed.TypeCreated, req.Category, req.PromptName, !existed)

	var msg string
	if existed {
		msg = fmt.Sprintf("Created new prompt '%s' in category '%s'", req.PromptName, req.Category)
	} else {
		msg = fmt.Sprintf("Created new prompt '%s' in new category '%s'", req.PromptName, req.Category)
	}
	writeJSON(w, http.StatusOK, result{Success: true, Message: msg})
}

func (h *handler) publish(typ, category, name string, newCategory bool) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(feed.Event{Type: typ, Category: category, Name: name, NewCategory: newCategory})
}
