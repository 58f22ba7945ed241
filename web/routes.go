/* routes.go
 * Contains the chi router and the principal middleware. The principal id is read from the X-Principal-ID header,
 * which is expected to be set by an authenticating proxy in front of this server
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const (
	principalHeader = "X-Principal-ID"
	emailHeader     = "X-Principal-Email"
)

type principalKey struct{}

// Principal is the authenticated caller of a request
type Principal struct {
	ID    string
	Email string
}

// NewRouter builds the HTTP handler for every route
func NewRouter(s *Server, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", principalHeader, emailHeader},
	}).Handler)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/rounds/{n}", s.RoundStatus)

	r.Group(func(r chi.Router) {
		r.Use(requirePrincipal)
		// watch endpoints hold the connection open so they are excluded from the request timeout
		r.Get("/teams/{id}/watch", s.WatchTeam)
		r.Get("/admin/teams/watch", s.WatchTeams)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(15 * time.Second))

			r.Post("/accounts", s.Register)
			r.Get("/me", s.Me)
			r.Get("/me/team", s.MyTeam)

			r.Post("/teams", s.CreateTeam)
			r.Get("/teams/{id}", s.GetTeam)
			r.Post("/teams/{id}/members", s.InviteMember)
			r.Delete("/teams/{id}/members/{principalID}", s.RemoveMember)
			r.Post("/teams/{id}/payment", s.ConfirmPayment)
			r.Post("/teams/{id}/rounds/1", s.SubmitRound1)
			r.Post("/teams/{id}/rounds/2", s.SubmitRound2)

			r.Get("/admin/teams", s.ListTeams)
			r.Post("/admin/teams/{id}/approve-payment", s.ApprovePayment)
			r.Post("/admin/teams/{id}/advance", s.Advance)
			r.Post("/admin/teams/{id}/eliminate", s.Eliminate)
			r.Get("/admin/teams/{id}/submissions", s.TeamSubmissions)
			r.Put("/admin/rounds/{n}", s.SetRoundConfig)
		})
	})
	return r
}

// requirePrincipal rejects requests without a principal id and stores the principal in the request context
func requirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(principalHeader))
		if id == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthenticated", Error: "missing " + principalHeader + " header"})
			return
		}
		p := Principal{ID: id, Email: strings.TrimSpace(r.Header.Get(emailHeader))}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	})
}

// principalFrom returns the principal stored by requirePrincipal
func principalFrom(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
