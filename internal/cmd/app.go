package cmd

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fennel/config"
	"github.com/Ramsey-B/fennel/internal/repositories/cptcode"
	"github.com/Ramsey-B/fennel/internal/repositories/order"
	"github.com/Ramsey-B/fennel/internal/repositories/rate"
	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/matching"
	"github.com/Ramsey-B/fennel/pkg/rates"
	"github.com/Ramsey-B/fennel/pkg/routes/cpt"
	"github.com/Ramsey-B/fennel/pkg/routes/health"
	ratesroute "github.com/Ramsey-B/fennel/pkg/routes/rates"
	"github.com/Ramsey-B/fennel/pkg/routes/search"
	"github.com/Ramsey-B/fennel/pkg/server"
)

type app struct {
	cfg    *config.Config
	logger ectologger.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) connect(ctx context.Context) (database.DB, error) {
	return database.Connect(ctx, a.cfg.Database(), a.logger)
}

func (a *app) searchService(db database.DB) (*matching.Service, error) {
	searchCfg, err := a.cfg.Search()
	if err != nil {
		return nil, err
	}
	return matching.NewService(a.logger, order.NewRepository(db, a.logger), searchCfg), nil
}

func (a *app) routes(db database.DB, checker *health.Checker) (server.Routes, error) {
	searchSvc, err := a.searchService(db)
	if err != nil {
		return server.Routes{}, err
	}

	taxonomy, err := a.cfg.Taxonomy()
	if err != nil {
		return server.Routes{}, err
	}
	reconciler := rates.NewReconciler(a.logger, rate.NewRepository(db, a.logger), taxonomy)

	return server.Routes{
		Health: checker,
		Search: search.NewHandler(searchSvc),
		Rates:  ratesroute.NewHandler(reconciler),
		CPT:    cpt.NewHandler(cptcode.NewRepository(db, a.logger)),
	}, nil
}
