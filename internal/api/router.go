package api

import (
	"net/http"
	"time"

	"taskzone/internal/api/handler"
	"taskzone/internal/api/middleware"
	"taskzone/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Tasks    *service.TaskService
	Health   *service.HealthService
	Identity middleware.PrincipalResolver
}

func NewRouter(logger *zap.Logger, svc Services, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.StripSlashes)
	r.Use(chiMiddleware.Timeout(requestTimeout))

	authn := middleware.Authenticator(svc.Identity)

	rootHandler := handler.NewRootHandler(svc.Health)
	rootHandler.RegisterRoutes(r)

	userHandler := handler.NewUserHandler(svc.Users, authn)
	r.Route("/users", userHandler.RegisterRoutes)

	authHandler := handler.NewAuthHandler(svc.Auth, authn)
	r.Route("/auth", authHandler.RegisterRoutes)

	taskHandler := handler.NewTaskHandler(svc.Tasks, authn)
	r.Route("/tasks", taskHandler.RegisterRoutes)

	return r
}
