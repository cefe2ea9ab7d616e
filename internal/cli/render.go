package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

const (
	barWidth      = 10
	recentLimit   = 20
	deletedMember = "deleted member"
)

// renderWeek prints the seven-day duty grid. A trailing "!" marks a manual
// assignment and "*" marks today's column.
func renderWeek(out io.Writer, snap models.Snapshot, weekStart, now time.Time) error {
	days := dates.WeekDays(weekStart)
	fmt.Fprintf(out, "Week of %s\n\n", dates.Key(weekStart))
	if len(snap.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"TASK"}
	for i, d := range days {
		name := dates.DayName(i)
		if dates.SameDay(now, d) {
			name += "*"
		}
		header = append(header, name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range chores.WeekGrid(snap, weekStart) {
		cells := []string{row.Task.Name}
		for _, c := range row.Days {
			switch {
			case !c.Assigned:
				cells = append(cells, "-")
			case c.Manual:
				cells = append(cells, c.Member.Name+"!")
			default:
				cells = append(cells, c.Member.Name)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n! manual assignment  * today")
	return nil
}

// renderStats prints the leaderboard with proportional bars followed by
// the most recent completions.
func renderStats(out io.Writer, snap models.Snapshot, now time.Time) error {
	sum := chores.Summarize(snap, now)
	fmt.Fprintf(out, "Month %s, %d completions\n\n", sum.Month, sum.Completions)

	counts := chores.MemberCompletionCounts(snap.History, snap.Members)
	if len(counts) == 0 {
		fmt.Fprintln(out, "No members yet.")
	} else {
		highest := chores.MaxCount(counts)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range counts {
			bar := strings.Repeat("#", c.Count*barWidth/highest)
			fmt.Fprintf(w, "%s\t%s\t%d\n", c.Member.Name, bar, c.Count)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	lines := chores.RecentHistory(snap, recentLimit)
	fmt.Fprintln(out, "\nRecent")
	if len(lines) == 0 {
		fmt.Fprintln(out, "Nothing completed yet.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, l := range lines {
		who := deletedMember
		if l.Known {
			who = l.Member.Name
		}
		at := l.Entry.CompletedAt.In(now.Location()).Format("2006-01-02 15:04")
		photo := ""
		if l.Entry.PhotoURL != "" {
			photo = "\t[photo]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s\n", at, l.Entry.TaskName, who, photo)
	}
	return w.Flush()
}
