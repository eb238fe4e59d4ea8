package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gobwas/glob"

	"prompt-db/promptdb"
)

const maxBodyBytes = 1 << 20

const (
	msgRequired    = "Category and prompt name are required"
	msgInvalidBody = "invalid request body"
)

// result is the success/failure envelope returned by mutating routes.
type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBody returns the request body, or nil for an empty one.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return body, nil
}

// decodeBody decodes an optional JSON object body into v. An empty body
// leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil || body == nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// storageMessage turns a store error into something fit for a client.
func storageMessage(err error) string {
	switch {
	case errors.Is(err, promptdb.ErrEmptyKey):
		return msgRequired
	case errors.Is(err, promptdb.ErrCorrupt):
		return "Error saving: prompts file is corrupt, fix or remove it first"
	default:
		return "Error saving: prompts file could not be written"
	}
}

// filterNames keeps the names matching a glob pattern; an empty pattern
// keeps everything.
func filterNames(names []string, pattern string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if g.Match(n) {
			out = append(out, n)
		}
	}
	return out, nil
}
