// Package handler implements the HTTP handlers for the trip budget API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (health.go, session.go, budget.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanchai/trip-budget/internal/budget"
	"github.com/kanchai/trip-budget/internal/domain"
	"github.com/kanchai/trip-budget/internal/selection"
)

// PlanAPI defines the plan storage operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without a running plan storage backend.
type PlanAPI interface {
	GetPlan(ctx context.Context, token string, userID, planID int64) (domain.Plan, error)
	RemoveDayLocation(ctx context.Context, token string, planID, dayID, locationID int64) error
}

// SessionStore persists selection sessions between requests.
// Satisfied by selection.RedisStore; tests inject miniredis-backed or mock stores.
type SessionStore interface {
	Save(ctx context.Context, s *selection.Session) error
	Get(ctx context.Context, id uuid.UUID) (*selection.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RouteEstimator computes a route cost estimate for an origin and stops.
type RouteEstimator interface {
	Estimate(ctx context.Context, origin domain.Coordinate, stops []domain.Coordinate, rate domain.CostRate) (domain.RouteEstimate, error)
}

// BudgetPersister recomputes a plan's total budget and writes it to plan storage.
type BudgetPersister interface {
	Persist(ctx context.Context, token string, planID int64, inputs []budget.DayInput) (float64, error)
}

// Server holds the dependencies shared by all API endpoints.
// Methods are in resource-specific files but all operate on this struct.
type Server struct {
	plans     PlanAPI
	sessions  SessionStore
	estimator RouteEstimator
	budgets   BudgetPersister
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(plans PlanAPI, sessions SessionStore, estimator RouteEstimator, budgets BudgetPersister, log *slog.Logger) *Server {
	return &Server{
		plans:     plans,
		sessions:  sessions,
		estimator: estimator,
		budgets:   budgets,
		log:       log,
	}
}

// SessionRoutes returns the router for the /sessions subtree.
// Mount it behind the auth middleware; every route here assumes an
// authenticated user in the request context.
func (s *Server) SessionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", s.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Route("/days/{dayIndex}", func(r chi.Router) {
			r.Post("/locations", s.AssignLocation)
			r.Delete("/locations/{locationID}", s.UnassignLocation)
			r.Post("/checked", s.ToggleChecked)
			r.Post("/check-all", s.CheckAll)
			r.Post("/clear-all", s.ClearAll)
			r.Post("/estimate", s.EstimateDay)
		})
		r.Get("/budget", s.GetBudget)
		r.Post("/budget", s.PersistBudget)
	})
	return r
}
