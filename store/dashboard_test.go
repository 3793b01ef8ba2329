package store

import (
	"strconv"
	"testing"
	"time"
)

// Fixture: alpha is pinned, bravo tagged "milk, dairy", charlie archived with
// milk in the content, delta categorized and oldest. A fifth note belongs to
// a different user.
func TestDashboard(t *testing.T) {
	s, database := newTestStore(t)
	owner := mustUser(t, s, "owner")
	other := mustUser(t, s, "other")

	category, err := s.CreateCategory(owner.ID, "Recipes", "#00ff00")
	if err != nil {
		t.Fatalf("Could not create category: %v", err)
	}
	foreignCategory, err := s.CreateCategory(other.ID, "Foreign", "")
	if err != nil {
		t.Fatalf("Could not create category: %v", err)
	}

	alpha := mustNote(t, s, owner.ID, "alpha", "first note", "", nil)
	bravo := mustNote(t, s, owner.ID, "bravo", "plain", "milk, dairy", nil)
	charlie := mustNote(t, s, owner.ID, "charlie", "buy MILK tomorrow", "", nil)
	delta := mustNote(t, s, owner.ID, "delta", "soup recipe", "food", &category.ID)
	mustNote(t, s, other.ID, "foreign milk note", "milk", "milk", nil)

	if _, err := s.SetPinned(owner.ID, alpha.ID, true); err != nil {
		t.Fatalf("Could not pin: %v", err)
	}
	if _, err := s.SetArchived(owner.ID, charlie.ID, true); err != nil {
		t.Fatalf("Could not archive: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	setTimes(t, database, delta.ID, base, base)
	setTimes(t, database, charlie.ID, base.Add(1*time.Hour), base.Add(1*time.Hour))
	setTimes(t, database, bravo.ID, base.Add(2*time.Hour), base.Add(4*time.Hour))
	// alpha is the oldest creation so the created-sort test proves the
	// pinned-first pass overrides the primary key.
	setTimes(t, database, alpha.ID, base.Add(-1*time.Hour), base.Add(3*time.Hour))

	titles := func(f Filter) []string {
		t.Helper()
		notes, _, err := s.Dashboard(owner.ID, f)
		if err != nil {
			t.Fatalf("Dashboard failed: %v", err)
		}
		out := make([]string, len(notes))
		for i, n := range notes {
			out[i] = n.Title
		}
		return out
	}

	t.Run("Default view hides archived, pinned first", func(t *testing.T) {
		got := titles(Filter{})
		want := []string{"alpha", "bravo", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Never returns another owner's notes", func(t *testing.T) {
		notes, _, err := s.Dashboard(owner.ID, Filter{Search: "milk", ShowArchived: true})
		if err != nil {
			t.Fatalf("Dashboard failed: %v", err)
		}
		for _, n := range notes {
			if n.UserID != owner.ID {
				t.Errorf("Dashboard leaked note %d owned by user %d", n.ID, n.UserID)
			}
		}
	})

	t.Run("Search is case-insensitive over title, content and tags", func(t *testing.T) {
		got := titles(Filter{Search: "milk", ShowArchived: true})
		want := []string{"bravo", "charlie"}
		assertTitles(t, got, want)
	})

	t.Run("Search respects archived exclusion", func(t *testing.T) {
		got := titles(Filter{Search: "milk"})
		want := []string{"bravo"}
		assertTitles(t, got, want)
	})

	t.Run("Category filter", func(t *testing.T) {
		got := titles(Filter{Category: strconv.Itoa(category.ID)})
		want := []string{"delta"}
		assertTitles(t, got, want)
	})

	t.Run("Uncategorized filter", func(t *testing.T) {
		got := titles(Filter{Category: "uncategorized"})
		want := []string{"alpha", "bravo"}
		assertTitles(t, got, want)
	})

	t.Run("Foreign category id is ignored", func(t *testing.T) {
		got := titles(Filter{Category: strconv.Itoa(foreignCategory.ID)})
		want := []string{"alpha", "bravo", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Garbage category value falls back to all", func(t *testing.T) {
		got := titles(Filter{Category: "nonsense"})
		want := []string{"alpha", "bravo", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Sort by created keeps pinned first", func(t *testing.T) {
		// alpha has the oldest created_at but is pinned.
		got := titles(Filter{SortBy: "created"})
		want := []string{"alpha", "bravo", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Sort by title keeps pinned first", func(t *testing.T) {
		got := titles(Filter{SortBy: "title", ShowArchived: true})
		want := []string{"alpha", "bravo", "charlie", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Unknown sort falls back to updated", func(t *testing.T) {
		got := titles(Filter{SortBy: "bogus"})
		want := []string{"alpha", "bravo", "delta"}
		assertTitles(t, got, want)
	})

	t.Run("Counts reflect the full set, not the filter", func(t *testing.T) {
		_, counts, err := s.Dashboard(owner.ID, Filter{Search: "milk"})
		if err != nil {
			t.Fatalf("Dashboard failed: %v", err)
		}
		if counts.Total != 4 {
			t.Errorf("Expected total 4, got %d", counts.Total)
		}
		if counts.PinnedActive != 1 {
			t.Errorf("Expected 1 pinned active note, got %d", counts.PinnedActive)
		}
		if counts.Archived != 1 {
			t.Errorf("Expected 1 archived note, got %d", counts.Archived)
		}
	})
}

func assertTitles(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}
