package chores

import (
	"sort"
	"time"

	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// Cell is one task on one day of the week grid
type Cell struct {
	Date     time.Time
	Member   models.Member
	Assigned bool // someone is on duty
	Manual   bool // picked by a manual assignment
}

// WeekRow is a task with its seven resolved days
type WeekRow struct {
	Task models.Task
	Days [7]Cell
}

// WeekGrid resolves every task for the seven days starting at weekStart
func WeekGrid(snap models.Snapshot, weekStart time.Time) []WeekRow {
	days := dates.WeekDays(weekStart)
	rows := make([]WeekRow, len(snap.Tasks))
	for i, task := range snap.Tasks {
		rows[i].Task = task
		for d, day := range days {
			m, manual, ok := ResolveAssignee(snap, task, day)
			rows[i].Days[d] = Cell{Date: day, Member: m, Assigned: ok, Manual: manual && ok}
		}
	}
	return rows
}

// AssignmentView is a manual assignment joined with its task and member
type AssignmentView struct {
	Assignment models.Assignment
	Task       models.Task
	Member     models.Member
	Day        time.Time
	DayName    string
}

// Assignments lists manual assignments whose task and member still exist,
// ordered by day then task name. Orphans are skipped, not repaired.
func Assignments(snap models.Snapshot, loc *time.Location) []AssignmentView {
	var out []AssignmentView
	for _, a := range snap.AssignmentList() {
		task, ok := snap.Task(a.TaskID)
		if !ok {
			continue
		}
		member, ok := snap.Member(a.MemberID)
		if !ok {
			continue
		}
		day, err := dates.ParseKey(a.Date, loc)
		if err != nil {
			continue
		}
		out = append(out, AssignmentView{
			Assignment: a,
			Task:       task,
			Member:     member,
			Day:        day,
			DayName:    dates.DayName(dates.DayIndex(day)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Assignment.Date != out[j].Assignment.Date {
			return out[i].Assignment.Date < out[j].Assignment.Date
		}
		if out[i].Task.Name != out[j].Task.Name {
			return out[i].Task.Name < out[j].Task.Name
		}
		return out[i].Task.ID < out[j].Task.ID
	})
	return out
}
