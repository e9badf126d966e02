package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hoops-draft-client/internal/backend"
	"github.com/DoyleJ11/hoops-draft-client/internal/draft"
	"github.com/DoyleJ11/hoops-draft-client/internal/eligibility"
	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/pkg/types"
)

type Session interface {
	View(ctx context.Context) (reconcile.View, error)
	Send(ctx context.Context, cmd types.ClientMessage) error
}

type Checker interface {
	Check(ctx context.Context, p draft.Player, con draft.Constraint, picked eligibility.PickedSet) eligibility.Result
}

type Searcher interface {
	SearchPlayers(ctx context.Context, q backend.PlayerQuery) ([]draft.Player, error)
}

type Deps struct {
	Session  Session
	Checker  Checker
	Searcher Searcher
	Logger   *zap.Logger
}

// SetupRoutes exposes the headless client to a UI process.
func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/state", State(d))
	r.Get("/players", Players(d))
	r.Post("/commands", Commands(d))
	return r
}
