package handlers

import (
	"fmt"
	"net/http"
	"time"
)

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	report, err := h.Store.Stats(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExportNotes streams the owner's notes as a downloadable markdown document.
func (h *Handler) ExportNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	doc, err := h.Store.ExportMarkdown(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("notes-export-%s.md", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(doc))
}
