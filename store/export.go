package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"notekeep/models"
)

type CategoryStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // "2006-01"
	Count int    `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type StatsReport struct {
	TotalNotes    int            `json:"total_notes"`
	PinnedNotes   int            `json:"pinned_notes"`
	ArchivedNotes int            `json:"archived_notes"`
	CategoryStats []CategoryStat `json:"category_stats"`
	RecentNotes   []models.Note  `json:"recent_notes"`
	MonthlyCounts []MonthCount   `json:"monthly_counts"`
	TopTags       []TagCount     `json:"top_tags"`
}

// ExportMarkdown renders the owner's non-archived notes, newest first, as a
// single markdown document.
func (s *Store) ExportMarkdown(userID int) (string, error) {
	rows, err := s.db.Query(
		`SELECT n.title, c.name, n.tags, n.content, n.created_at, n.updated_at
		 FROM notes n LEFT JOIN categories c ON n.category_id = c.id
		 WHERE n.user_id = ? AND n.is_archived = 0
		 ORDER BY n.created_at DESC`, userID,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString("# Notes Export\n\n")
	b.WriteString("Exported " + time.Now().Format("2006-01-02") + "\n")

	for rows.Next() {
		var title, tags, content string
		var category sql.NullString
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&title, &category, &tags, &content, &createdAt, &updatedAt); err != nil {
			return "", err
		}

		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "## %s\n\n", title)
		if category.Valid {
			fmt.Fprintf(&b, "- Category: %s\n", category.String)
		} else {
			b.WriteString("- Category: (none)\n")
		}
		if tags != "" {
			fmt.Fprintf(&b, "- Tags: %s\n", tags)
		}
		fmt.Fprintf(&b, "- Created: %s\n", createdAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(&b, "- Updated: %s\n", updatedAt.Format("2006-01-02 15:04"))
		b.WriteString("\n")
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), rows.Err()
}

// Stats aggregates the owner's usage snapshot: totals, per-category counts,
// the five most recently updated notes, per-month creation counts for the
// trailing six calendar months and the ten most frequent tags.
func (s *Store) Stats(userID int) (*StatsReport, error) {
	counts, err := s.noteCounts(userID)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{
		TotalNotes:    counts.Total,
		PinnedNotes:   counts.PinnedActive,
		ArchivedNotes: counts.Archived,
	}

	report.CategoryStats, err = s.categoryStats(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY updated_at DESC LIMIT 5", userID,
	)
	if err != nil {
		return nil, err
	}
	report.RecentNotes, err = collectNotes(rows)
	if err != nil {
		return nil, err
	}

	created, tags, err := s.noteCreationData(userID)
	if err != nil {
		return nil, err
	}
	report.MonthlyCounts = MonthlyCounts(created, time.Now())
	report.TopTags = CountTags(tags, 10)

	return report, nil
}

func (s *Store) categoryStats(userID int) ([]CategoryStat, error) {
	rows, err := s.db.Query(
		`SELECT c.name, COUNT(n.id)
		 FROM categories c LEFT JOIN notes n ON n.category_id = c.id
		 WHERE c.user_id = ?
		 GROUP BY c.id, c.name
		 ORDER BY c.name`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []CategoryStat{}
	for rows.Next() {
		var st CategoryStat
		if err := rows.Scan(&st.Name, &st.Count); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Store) noteCreationData(userID int) ([]time.Time, []string, error) {
	rows, err := s.db.Query("SELECT created_at, tags FROM notes WHERE user_id = ?", userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var created []time.Time
	var tags []string
	for rows.Next() {
		var ts time.Time
		var raw string
		if err := rows.Scan(&ts, &raw); err != nil {
			return nil, nil, err
		}
		created = append(created, ts)
		tags = append(tags, raw)
	}
	return created, tags, rows.Err()
}

// MonthlyCounts buckets creation times into the six calendar months ending at
// now (the current partial month included).
func MonthlyCounts(created []time.Time, now time.Time) []MonthCount {
	months := make([]MonthCount, 0, 6)
	index := map[string]int{}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format("2006-01")
		index[key] = len(months)
		months = append(months, MonthCount{Month: key})
	}
	for _, ts := range created {
		if i, ok := index[ts.Format("2006-01")]; ok {
			months[i].Count++
		}
	}
	return months
}

// CountTags splits comma-separated tag strings, trims and lower-cases them,
// and returns the top n by frequency. Ties keep first-encountered order.
func CountTags(raw []string, n int) []TagCount {
	counts := []TagCount{}
	index := map[string]int{}
	for _, line := range raw {
		for _, tag := range strings.Split(line, ",") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if i, ok := index[tag]; ok {
				counts[i].Count++
			} else {
				index[tag] = len(counts)
				counts = append(counts, TagCount{Tag: tag, Count: 1})
			}
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
