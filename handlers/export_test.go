package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notekeep/store"
)

func TestStatsHandler(t *testing.T) {
	h := newTestHandler(t)
	user, _ := h.Store.CreateUser("counter", "counter@example.com", "password123")
	h.Store.CreateNote(user.ID, "Groceries", "", "home, shopping", nil)

	rr := httptest.NewRecorder()
	h.Stats(rr, asUser(httptest.NewRequest("GET", "/api/stats", nil), user.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("Handler returned wrong status code: got %v", rr.Code)
	}

	var report store.StatsReport
	json.Unmarshal(rr.Body.Bytes(), &report)
	if report.TotalNotes != 1 {
		t.Errorf("Expected 1 note, got %d", report.TotalNotes)
	}
	if len(report.TopTags) != 2 || report.TopTags[0].Tag != "home" {
		t.Errorf("Unexpected tag stats: %+v", report.TopTags)
	}
	if len(report.MonthlyCounts) != 6 {
		t.Errorf("Expected 6 month buckets, got %d", len(report.MonthlyCounts))
	}
}

func TestExportNotesHandler(t *testing.T) {
	h := newTestHandler(t)
	user, _ := h.Store.CreateUser("exporter", "exporter@example.com", "password123")
	h.Store.CreateNote(user.ID, "Visible", "kept", "", nil)
	hidden, _ := h.Store.CreateNote(user.ID, "Hidden", "dropped", "", nil)
	h.Store.SetArchived(user.ID, hidden.ID, true)

	rr := httptest.NewRecorder()
	h.ExportNotes(rr, asUser(httptest.NewRequest("GET", "/export/notes", nil), user.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("Handler returned wrong status code: got %v", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Unexpected content type: %s", ct)
	}
	cd := rr.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "notes-export-") {
		t.Errorf("Unexpected content disposition: %s", cd)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "## Visible") {
		t.Errorf("Export is missing the note: %s", body)
	}
	if strings.Contains(body, "Hidden") {
		t.Error("Export includes an archived note")
	}
}

func TestCategoryHandlers(t *testing.T) {
	h := newTestHandler(t)
	user, _ := h.Store.CreateUser("tagger", "tagger@example.com", "password123")

	t.Run("Create category", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := asUser(jsonRequest(t, "POST", "/categories/new", map[string]string{
			"name":  "Work",
			"color": "#ff8800",
		}), user.ID)
		h.CreateCategory(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("Handler returned wrong status code: got %v", rr.Code)
		}
	})

	t.Run("Duplicate name conflicts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := asUser(jsonRequest(t, "POST", "/categories/new", map[string]string{"name": "Work"}), user.ID)
		h.CreateCategory(rr, req)
		if rr.Code != http.StatusConflict {
			t.Errorf("Handler returned wrong status code: got %v", rr.Code)
		}
	})

	t.Run("List categories", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ListCategories(rr, asUser(httptest.NewRequest("GET", "/categories", nil), user.ID))
		if rr.Code != http.StatusOK {
			t.Fatalf("Handler returned wrong status code: got %v", rr.Code)
		}
		var categories []map[string]any
		json.Unmarshal(rr.Body.Bytes(), &categories)
		if len(categories) != 1 {
			t.Errorf("Expected 1 category, got %d", len(categories))
		}
	})
}
