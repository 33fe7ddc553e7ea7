package handler

import (
	"net/http"

	"taskzone/internal/app/service"
	"taskzone/internal/common"

	"github.com/go-chi/chi/v5"
)

type message struct {
	Message string `json:"message"`
}

type healthStatus struct {
	Status string `json:"status"`
}

type RootHandler struct {
	healthService *service.HealthService
}

func NewRootHandler(hs *service.HealthService) *RootHandler {
	return &RootHandler{healthService: hs}
}

func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.hello)
	r.Get("/health", h.health)
}

func (h *RootHandler) hello(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, message{Message: "Hello World"})
}

func (h *RootHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.healthService.Check(r.Context()); err != nil {
		common.RespondWithError(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}
