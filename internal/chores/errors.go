// Package chores holds the pure household logic: who is on duty for a task
// on a given day, how the rotation moves on completion and undo, and the
// derived statistics and calendar views. Nothing here touches storage; every
// function takes the snapshot or records it needs.
package chores

import "errors"

var (
	// Validation errors are reported before any store call.
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidCycle = errors.New("cycle must be daily, every2days or weekly")
	ErrNoMembers    = errors.New("add a member before creating tasks")
	ErrMemberInUse  = errors.New("member is part of a task rotation")

	ErrTaskNotFound   = errors.New("task not found")
	ErrMemberNotFound = errors.New("member not found")

	// Rotation preconditions.
	ErrAlreadyCompleted = errors.New("task already completed today")
	ErrNothingToUndo    = errors.New("task has no completion today")
	ErrEmptyQueue       = errors.New("task has nobody in its rotation")

	ErrInvalidDateKey = errors.New("date must be YYYY-MM-DD")
)
