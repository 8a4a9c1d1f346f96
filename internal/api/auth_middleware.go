package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/auth"
)

// AuthMiddleware authenticates every request with a Bearer API key and stores
// the resolved actor on the request context.
func AuthMiddleware(authorizer auth.Authorizer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, err := auth.ExtractAPIKey(r)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			actor, err := authorizer.Authorize(r.Context(), apiKey, r.Method, r.URL.Path)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}
