package handler

import (
	"net/http"

	"taskzone/internal/api/middleware"
	"taskzone/internal/app/service"
	"taskzone/internal/common"
	"taskzone/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
	authn       func(http.Handler) http.Handler
}

func NewTaskHandler(ts *service.TaskService, authn func(http.Handler) http.Handler) *TaskHandler {
	return &TaskHandler{taskService: ts, authn: authn}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.authn)
	r.Post("/", h.createTask)
	r.Get("/", h.listTasks)
	r.Patch("/{taskID}", h.updateTask)
	r.Delete("/{taskID}", h.deleteTask)
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}

	var req service.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), owner, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}

	q := r.URL.Query()
	filter := model.TaskFilter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
		State:       model.TaskState(q.Get("state")),
	}

	var fields []common.FieldError
	var fe *common.FieldError
	if filter.Offset, fe = queryInt(q, "offset"); fe != nil {
		fields = append(fields, *fe)
	}
	if filter.Limit, fe = queryInt(q, "limit"); fe != nil {
		fields = append(fields, *fe)
	}
	if len(fields) > 0 {
		common.RespondWithServiceError(w, common.NewValidationError(fields...))
		return
	}

	tasks, err := h.taskService.List(r.Context(), owner, filter)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, service.TaskListResponse{Tasks: tasks})
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}
	id, err := pathID(r, "taskID")
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	var req service.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), owner, id, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}
	id, err := pathID(r, "taskID")
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), owner, id); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithNoContent(w)
}
