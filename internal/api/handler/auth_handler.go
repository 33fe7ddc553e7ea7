package handler

import (
	"net/http"

	"taskzone/internal/api/middleware"
	"taskzone/internal/app/service"
	"taskzone/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	authn       func(http.Handler) http.Handler
}

func NewAuthHandler(authService *service.AuthService, authn func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{authService: authService, authn: authn}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/token", h.login)
	r.With(h.authn).Post("/refresh/token", h.refresh)
}

// login implements the OAuth2 password grant: a form with username (the
// account email) and password.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		common.RespondWithServiceError(w, common.ErrInvalidRequestPayload)
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithServiceError(w, common.ErrCredentials)
		return
	}

	resp, err := h.authService.Refresh(r.Context(), principal)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
