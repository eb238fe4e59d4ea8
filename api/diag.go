package api

import "net/http"

const clientLogPrefix = "[JS] "

func (h *handler) clientLog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Msg string `json:"msg"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		h.appendDiag(clientLogPrefix + "Logging error: " + err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": msgInvalidBody})
		return
	}
	h.appendDiag(clientLogPrefix + req.Msg)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *handler) appendDiag(line string) {
	if h.diag == nil {
		return
	}
	h.diag.Append(line)
}
