package chores

import (
	"strings"

	"github.com/tgienger/chores/internal/models"
)

const (
	DefaultMemberEmoji = "👤"
	DefaultTaskIcon    = "✅"
)

// Palette colours members by creation order
var Palette = []string{
	"#6366f1", "#10b981", "#f59e0b", "#ef4444",
	"#06b6d4", "#8b5cf6", "#ec4899", "#14b8a6",
}

// MemberColor returns the colour for the member created after existing
// others. A member keeps its colour for life.
func MemberColor(existing int) string {
	if existing < 0 {
		existing = 0
	}
	return Palette[existing%len(Palette)]
}

// CleanName trims name and rejects blanks
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// OrDefault returns the trimmed value or def when blank
func OrDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

// ParseCycle validates a cycle name; blank means daily
func ParseCycle(s string) (models.Cycle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.CycleDaily, nil
	}
	c := models.Cycle(s)
	if !c.Valid() {
		return "", ErrInvalidCycle
	}
	return c, nil
}

// CheckMemberDeletable fails with ErrMemberInUse when any task queue still
// references the member.
func CheckMemberDeletable(snap models.Snapshot, memberID string) error {
	for _, t := range snap.Tasks {
		for _, id := range t.Queue {
			if id == memberID {
				return ErrMemberInUse
			}
		}
	}
	return nil
}

// InitialQueue is every current member in member order
func InitialQueue(members []models.Member) []string {
	queue := make([]string, len(members))
	for i, m := range members {
		queue[i] = m.ID
	}
	return queue
}
