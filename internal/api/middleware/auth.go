package middleware

import (
	"context"
	"net/http"

	"taskzone/internal/common"
	"taskzone/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// PrincipalResolver maps a bearer token to the user it identifies.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Authenticator resolves the bearer token of every request and stores the
// resulting principal in the request context. Requests that cannot be
// resolved are answered with 401.
func Authenticator(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				common.RespondWithServiceError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the user stored by Authenticator.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	principal, ok := ctx.Value(principalCtxKey).(*model.User)
	return principal, ok && principal != nil
}
