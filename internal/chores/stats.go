package chores

import (
	"sort"
	"time"

	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// MemberCount is one row of the completion leaderboard
type MemberCount struct {
	Member models.Member
	Count  int
}

// MemberCompletionCounts counts history entries per member, most first.
// Ties keep member order. Entries for deleted members are ignored.
func MemberCompletionCounts(history []models.HistoryEntry, members []models.Member) []MemberCount {
	counts := make([]MemberCount, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		counts[i] = MemberCount{Member: m}
		index[m.ID] = i
	}
	for _, e := range history {
		if i, ok := index[e.MemberID]; ok {
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// MaxCount is the largest count, never below 1, for scaling bars
func MaxCount(counts []MemberCount) int {
	highest := 1
	for _, c := range counts {
		if c.Count > highest {
			highest = c.Count
		}
	}
	return highest
}

// TaskPhotos returns the task's entries that carry a photo, newest first
func TaskPhotos(history []models.HistoryEntry, taskID string) []models.HistoryEntry {
	var out []models.HistoryEntry
	for _, e := range history {
		if e.TaskID == taskID && e.PhotoURL != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

// HistoryLine is a history entry joined with its member for display
type HistoryLine struct {
	Entry  models.HistoryEntry
	Member models.Member
	Known  bool // false when the member has been deleted
}

// RecentHistory returns up to limit entries in the order given (newest
// first, as the store delivers them).
func RecentHistory(snap models.Snapshot, limit int) []HistoryLine {
	entries := snap.History
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	lines := make([]HistoryLine, len(entries))
	for i, e := range entries {
		m, ok := snap.Member(e.MemberID)
		lines[i] = HistoryLine{Entry: e, Member: m, Known: ok}
	}
	return lines
}

// Summary holds the totals shown next to the statistics
type Summary struct {
	Month       string
	Completions int
}

// Summarize reports the current month and completions in the mirror
func Summarize(snap models.Snapshot, now time.Time) Summary {
	return Summary{Month: dates.Month(now), Completions: len(snap.History)}
}
