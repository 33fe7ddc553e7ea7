package service

import (
	"context"
	"strings"
	"testing"

	"taskzone/internal/common"
	"taskzone/internal/domain/model"
	"taskzone/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func statePtr(s model.TaskState) *model.TaskState { return &s }

func intPtr(v int) *int { return &v }

func newTaskFixture(t *testing.T) (*TaskService, *model.User, *model.User) {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	alice := &model.User{Username: "alice", Email: "alice@x.com"}
	bob := &model.User{Username: "bob", Email: "bob@x.com"}
	require.NoError(t, store.Users().Create(ctx, alice))
	require.NoError(t, store.Users().Create(ctx, bob))

	return NewTaskService(store.Tasks(), nopLogger), alice, bob
}

func TestTaskService_Create(t *testing.T) {
	tasks, alice, _ := newTaskFixture(t)

	task, err := tasks.Create(context.Background(), alice, CreateTaskRequest{
		Title:       "Test task",
		Description: strPtr(""),
		State:       model.TaskStateDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, task.UserID)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, model.TaskStateDraft, task.State)

	long := strings.Repeat("t", 300)
	task, err = tasks.Create(context.Background(), alice, CreateTaskRequest{
		Title:       long,
		Description: strPtr(strings.Repeat("d", 5000)),
		State:       model.TaskStateTodo,
	})
	require.NoError(t, err)
	assert.Equal(t, long, task.Title)
}

func TestTaskService_CreateValidation(t *testing.T) {
	tasks, alice, _ := newTaskFixture(t)

	tests := []struct {
		name  string
		req   CreateTaskRequest
		field string
	}{
		{"invalid state", CreateTaskRequest{Title: "t", Description: strPtr("d"), State: "test"}, "state"},
		{"missing description", CreateTaskRequest{Title: "t", State: model.TaskStateTodo}, "description"},
		{"missing title", CreateTaskRequest{Description: strPtr("d"), State: model.TaskStateTodo}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tasks.Create(context.Background(), alice, tt.req)
			var vErr *common.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, []string{"body", tt.field}, vErr.Fields[0].Loc)
		})
	}
}

func TestTaskService_ListIsOwnerScoped(t *testing.T) {
	tasks, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tasks.Create(ctx, alice, CreateTaskRequest{Title: "alice task", Description: strPtr("d"), State: model.TaskStateTodo})
		require.NoError(t, err)
	}
	_, err := tasks.Create(ctx, bob, CreateTaskRequest{Title: "bob task", Description: strPtr("d"), State: model.TaskStateTodo})
	require.NoError(t, err)

	list, err := tasks.List(ctx, alice, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, task := range list {
		assert.Equal(t, alice.ID, task.UserID)
	}

	list, err = tasks.List(ctx, bob, model.TaskFilter{Title: "alice"})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = tasks.List(ctx, alice, model.TaskFilter{Offset: intPtr(1), Limit: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = tasks.List(ctx, alice, model.TaskFilter{Limit: intPtr(-1)})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestTaskService_SparseUpdate(t *testing.T) {
	tasks, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, CreateTaskRequest{Title: "A", Description: strPtr("B"), State: model.TaskStateTodo})
	require.NoError(t, err)

	updated, err := tasks.Update(ctx, alice, task.ID, UpdateTaskRequest{Title: strPtr("C")})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Title)
	assert.Equal(t, "B", updated.Description)
	assert.Equal(t, model.TaskStateTodo, updated.State)

	updated, err = tasks.Update(ctx, alice, task.ID, UpdateTaskRequest{State: statePtr(model.TaskStateDone)})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Title)
	assert.Equal(t, model.TaskStateDone, updated.State)
}

func TestTaskService_UpdateErrors(t *testing.T) {
	tasks, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, CreateTaskRequest{Title: "A", Description: strPtr("B"), State: model.TaskStateTodo})
	require.NoError(t, err)

	_, err = tasks.Update(ctx, bob, task.ID, UpdateTaskRequest{Title: strPtr("stolen")})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Task not found", common.DetailFromError(err))

	_, err = tasks.Update(ctx, alice, 999, UpdateTaskRequest{Title: strPtr("x")})
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = tasks.Update(ctx, alice, task.ID, UpdateTaskRequest{State: statePtr("later")})
	require.ErrorIs(t, err, common.ErrValidation)

	_, createErr := tasks.Create(ctx, alice, CreateTaskRequest{Title: "t", Description: strPtr("d"), State: "later"})
	var updateErr, createVErr *common.ValidationError
	require.ErrorAs(t, err, &updateErr)
	require.ErrorAs(t, createErr, &createVErr)
	assert.Equal(t, createVErr.Fields, updateErr.Fields, "create and update report a bad state the same way")
	assert.Equal(t, "type_error.enum", updateErr.Fields[0].Type)

	_, err = tasks.Update(ctx, alice, task.ID, UpdateTaskRequest{State: statePtr("")})
	require.ErrorIs(t, err, common.ErrValidation)

	list, err := tasks.List(ctx, alice, model.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, "A", list[0].Title)
}

func TestTaskService_Delete(t *testing.T) {
	tasks, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, alice, CreateTaskRequest{Title: "A", Description: strPtr("B"), State: model.TaskStateTodo})
	require.NoError(t, err)

	require.ErrorIs(t, tasks.Delete(ctx, bob, task.ID), common.ErrNotFound)
	require.NoError(t, tasks.Delete(ctx, alice, task.ID))
	require.ErrorIs(t, tasks.Delete(ctx, alice, task.ID), common.ErrNotFound)
}

func TestHealthService(t *testing.T) {
	health := NewHealthService(repository.NewMemoryStore())
	require.NoError(t, health.Check(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, health.Check(ctx))
}
