package handlers

import (
	"net/http"

	appmw "notekeep/middleware"
	"notekeep/store"
)

// Handler holds the dependencies shared by all HTTP handlers. The store
// handle is passed in explicitly; there are no package globals.
type Handler struct {
	Store     *store.Store
	JWTSecret []byte
}

func New(s *store.Store, jwtSecret []byte) *Handler {
	return &Handler{Store: s, JWTSecret: jwtSecret}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := appmw.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}
