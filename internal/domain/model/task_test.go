package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskPatch_Apply(t *testing.T) {
	task := Task{Title: "A", Description: "B", State: TaskStateTodo}
	title := "C"

	TaskPatch{Title: &title}.Apply(&task)

	assert.Equal(t, "C", task.Title)
	assert.Equal(t, "B", task.Description)
	assert.Equal(t, TaskStateTodo, task.State)
}

func TestTaskPatch_ApplySameValue(t *testing.T) {
	task := Task{Title: "A", Description: "B", State: TaskStateTodo}
	empty := ""
	done := TaskStateDone

	TaskPatch{Description: &empty, State: &done}.Apply(&task)

	assert.Equal(t, "A", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, TaskStateDone, task.State)
}
