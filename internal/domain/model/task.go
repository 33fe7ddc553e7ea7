package model

import "time"

type TaskState string

const (
	TaskStateTodo  TaskState = "todo"
	TaskStateDoing TaskState = "doing"
	TaskStateDone  TaskState = "done"
	TaskStateDraft TaskState = "draft"
	TaskStateTrash TaskState = "trash"
)

type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	State       TaskState `json:"state" db:"state"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TaskFilter narrows a listing of one owner's tasks. Empty strings impose no
// constraint; nil Offset or Limit means no pagination on that side.
type TaskFilter struct {
	Title       string
	Description string
	State       TaskState
	Offset      *int
	Limit       *int
}

// TaskPatch is a sparse update: only non-nil fields are applied.
type TaskPatch struct {
	Title       *string
	Description *string
	State       *TaskState
}

// Apply copies the present fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.State != nil {
		t.State = *p.State
	}
}
