package service

import (
	"context"
	"errors"
	"fmt"

	"taskzone/internal/common"
	"taskzone/internal/domain/model"
	"taskzone/internal/domain/repository"

	"go.uber.org/zap"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	logger   *zap.Logger
}

func NewTaskService(taskRepo repository.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, logger: logger}
}

type CreateTaskRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description *string         `json:"description" validate:"required"`
	State       model.TaskState `json:"state" validate:"required,oneof=todo doing done draft trash"`
}

// UpdateTaskRequest is a sparse update. Absent and null fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	State       *model.TaskState `json:"state,omitempty" validate:"omitempty,oneof=todo doing done draft trash"`
}

func (r UpdateTaskRequest) Patch() model.TaskPatch {
	return model.TaskPatch{Title: r.Title, Description: r.Description, State: r.State}
}

type TaskListResponse struct {
	Tasks []model.Task `json:"tasks"`
}

func (s *TaskService) Create(ctx context.Context, owner *model.User, req CreateTaskRequest) (*model.Task, error) {
	if owner == nil {
		return nil, common.ErrCredentials
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       req.Title,
		Description: *req.Description,
		State:       req.State,
		UserID:      owner.ID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task", zap.Int64("user_id", owner.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching every non-empty filter field.
func (s *TaskService) List(ctx context.Context, owner *model.User, filter model.TaskFilter) ([]model.Task, error) {
	if owner == nil {
		return nil, common.ErrCredentials
	}

	var fields []common.FieldError
	if filter.Offset != nil && *filter.Offset < 0 {
		fields = append(fields, common.QueryFieldError("offset", "ensure this value is greater than or equal to 0", "value_error.number.not_ge"))
	}
	if filter.Limit != nil && *filter.Limit < 0 {
		fields = append(fields, common.QueryFieldError("limit", "ensure this value is greater than or equal to 0", "value_error.number.not_ge"))
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields...)
	}

	tasks, err := s.taskRepo.List(ctx, owner.ID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Int64("user_id", owner.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the present fields of req to one of the owner's tasks.
// A task owned by someone else is reported as not found.
func (s *TaskService) Update(ctx context.Context, owner *model.User, id int64, req UpdateTaskRequest) (*model.Task, error) {
	if owner == nil {
		return nil, common.ErrCredentials
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTaskNotFound
		}
		s.logger.Error("failed to load task", zap.Int64("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	req.Patch().Apply(task)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTaskNotFound
		}
		s.logger.Error("failed to update task", zap.Int64("task_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, owner *model.User, id int64) error {
	if owner == nil {
		return common.ErrCredentials
	}
	if err := s.taskRepo.Delete(ctx, id, owner.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTaskNotFound
		}
		s.logger.Error("failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
