package handler

import (
	"net/http"

	"taskzone/internal/api/middleware"
	"taskzone/internal/app/service"
	"taskzone/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	authn       func(http.Handler) http.Handler
}

func NewUserHandler(us *service.UserService, authn func(http.Handler) http.Handler) *UserHandler {
	return &UserHandler{userService: us, authn: authn}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Get("/", h.listUsers)
	r.Get("/{userID}", h.getUser)

	r.Group(func(protected chi.Router) {
		protected.Use(h.authn)
		protected.Put("/{userID}", h.updateUser)
		protected.Delete("/{userID}", h.deleteUser)
	})
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

// listUsers accepts skip as the offset parameter and offset as its alias.
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fields []common.FieldError

	limit, fe := queryInt(q, "limit")
	if fe != nil {
		fields = append(fields, *fe)
	}
	skipName := "skip"
	if q.Get("skip") == "" && q.Get("offset") != "" {
		skipName = "offset"
	}
	skip, fe := queryInt(q, skipName)
	if fe != nil {
		fields = append(fields, *fe)
	}
	if len(fields) > 0 {
		common.RespondWithServiceError(w, common.NewValidationError(fields...))
		return
	}

	l, o := service.DefaultUsersLimit, service.DefaultUsersOffset
	if limit != nil {
		l = *limit
	}
	if skip != nil {
		o = *skip
	}

	users, err := h.userService.List(r.Context(), l, o)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, service.UserListResponse{Users: users})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}
	id, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	var req service.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	user, err := h.userService.Replace(r.Context(), id, req, principal)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}
	id, err := pathID(r, "userID")
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id, principal); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithNoContent(w)
}
