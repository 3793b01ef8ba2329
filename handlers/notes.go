package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"notekeep/models"
	"notekeep/store"
)

var mdRenderer = goldmark.New()

type noteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Tags       string `json:"tags"`
	CategoryID *int   `json:"category_id"`
}

type dashboardResponse struct {
	Notes  []models.Note `json:"notes"`
	Counts store.Counts  `json:"counts"`
}

func noteID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := store.Filter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		ShowArchived: q.Get("archived") == "1" || q.Get("archived") == "true",
		SortBy:       q.Get("sort"),
	}

	notes, counts, err := h.Store.Dashboard(userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Notes: notes, Counts: counts})
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", store.ErrValidation))
		return
	}

	note, err := h.Store.CreateNote(userID, req.Title, req.Content, req.Tags, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote returns the note plus its content rendered to HTML.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := h.Store.GetNote(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(note.Content), &buf); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		models.Note
		HTML string `json:"html"`
	}{Note: *note, HTML: buf.String()})
}

func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", store.ErrValidation))
		return
	}

	note, err := h.Store.UpdateNote(userID, id, req.Title, req.Content, req.Tags, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Store.DeleteNote(userID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

// PinNote toggles the pin flag and returns the updated note.
func (h *Handler) PinNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := h.Store.GetNote(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	note, err = h.Store.SetPinned(userID, id, !note.IsPinned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ArchiveNote toggles the archive flag; archiving also unpins.
func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := h.Store.GetNote(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	note, err = h.Store.SetArchived(userID, id, !note.IsArchived)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) BatchAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Action  string `json:"action"`
		NoteIDs []int  `json:"note_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", store.ErrValidation))
		return
	}

	affected, err := h.Store.BatchApply(userID, req.Action, req.NoteIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"affected": affected})
}
