package domain

import (
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

type TaskType string

const (
	TaskPlanning  TaskType = "PLANNING"
	TaskCreative  TaskType = "CREATIVE"
	TaskTechnical TaskType = "TECHNICAL"
	TaskResearch  TaskType = "RESEARCH"
	TaskTesting   TaskType = "TESTING"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskPlanning, TaskCreative, TaskTechnical, TaskResearch, TaskTesting:
		return true
	}
	return false
}

const MaxTaskTitleLength = 20

// Task represents a unit of work, optionally owned by a team.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    time.Time  `json:"deadline"`
	TeamID      string     `json:"team_id,omitempty"`
	CreatedByID string     `json:"created_by_id"`
	Type        TaskType   `json:"task_type"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) Validate() error {
	if t == nil || t.Title == "" || utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrInvalidPayload
	}
	if t.CreatedByID == "" || t.Deadline.IsZero() || !t.Type.Valid() {
		return ErrInvalidPayload
	}
	if t.Status != TaskPending && t.Status != TaskCompleted {
		return ErrInvalidPayload
	}
	return nil
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskCompleted
}

// authorize checks that actorID leads the task's team. team may be nil for a
// task without one, in which case nobody is authorized.
func (t *Task) authorize(actorID string, team *Team) error {
	if t.TeamID == "" || team == nil || team.ID != t.TeamID || !team.IsLeader(actorID) {
		return ErrForbidden
	}
	return nil
}

// MarkCompleted completes the task. Completing twice is a no-op.
func (t *Task) MarkCompleted(actorID string, team *Team) error {
	if err := t.authorize(actorID, team); err != nil {
		return err
	}
	t.Status = TaskCompleted
	return nil
}

// ExtendDeadline pushes the deadline forward by extraDays whole days.
func (t *Task) ExtendDeadline(actorID string, team *Team, extraDays int) (time.Time, error) {
	if err := t.authorize(actorID, team); err != nil {
		return t.Deadline, err
	}
	if extraDays <= 0 {
		return t.Deadline, ErrInvalidArgument
	}
	if t.IsCompleted() {
		return t.Deadline, ErrAlreadyCompleted
	}
	t.Deadline = t.Deadline.Add(time.Duration(extraDays) * 24 * time.Hour)
	return t.Deadline, nil
}
