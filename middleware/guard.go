package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wowktm/authkit"
)

type userContextKey struct{}

// UserFromContext returns the user snapshot injected by [Require] or
// [Optional]. ok is false for anonymous requests.
func UserFromContext(ctx context.Context) (*authkit.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*authkit.User)
	return user, ok
}

// Require enforces req on every request: a missing or invalid bearer token
// is a 401, an authenticated user failing the requirement is a 403, and an
// allowed request proceeds with the user in its context.
func Require(engine *authkit.Engine, req authkit.AccessRequirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			var user *authkit.User
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				resolved, err := engine.ResolveToken(r.Context(), token)
				if err == nil {
					user = resolved
				}
			}

			switch authkit.Evaluate(user, req) {
			case authkit.DecisionRedirectToAuth:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			case authkit.DecisionDeny:
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional resolves the bearer token when one is present but lets every
// request through. Handlers distinguish anonymous requests via
// [UserFromContext].
func Optional(engine *authkit.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine != nil {
				if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
					if user, err := engine.ResolveToken(r.Context(), token); err == nil {
						ctx := context.WithValue(r.Context(), userContextKey{}, user)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
