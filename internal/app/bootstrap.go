// Package app is the composition root: bootstrap stays orchestration-only.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riverqueue/river"

	"maraisroos.co.za/formgate/internal/api/handlers"
	"maraisroos.co.za/formgate/internal/audit"
	"maraisroos.co.za/formgate/internal/config"
	"maraisroos.co.za/formgate/internal/gatekeeper"
	"maraisroos.co.za/formgate/internal/gatekeeper/ratelimit"
	"maraisroos.co.za/formgate/internal/infrastructure"
	"maraisroos.co.za/formgate/internal/jobs"
	"maraisroos.co.za/formgate/internal/notification"
	"maraisroos.co.za/formgate/internal/pkg/logger"
	"maraisroos.co.za/formgate/internal/pkg/worker"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	DB     *infrastructure.DatabaseClients
	Pools  *worker.Pools
}

// Bootstrap initializes all dependencies. Manual DI, no Wire/Dig.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	store := audit.NewStore(db.Pool)

	var sender notification.Sender = notification.DisabledSender{}
	if cfg.Notification.ResendAPIKey != "" {
		sender = notification.NewResendSender(cfg.Notification.ResendAPIKey, "")
	} else {
		logger.Warn("RESEND_API_KEY not configured: portfolio delivery and notifications are disabled")
	}
	operatorEmails := notification.OperatorEmails{
		From: cfg.Notification.FromEmail,
		To:   cfg.Notification.NotifyEmail,
	}
	portfolioMailer := notification.NewPortfolioMailer(sender,
		cfg.Notification.FromEmail, cfg.Notification.PortfolioPDFPath)

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewNotificationDispatchWorker(sender, operatorEmails))
	river.AddWorker(workers, jobs.NewAuditCleanupWorker(store, cfg.Gatekeeper.AuditRetention))
	if err := db.InitRiverClient(workers, cfg.River); err != nil {
		db.Close()
		return nil, fmt.Errorf("init river workers: %w", err)
	}

	// Prune blocked-attempt audit rows daily, and once on startup so a
	// rarely-restarted instance still converges after downtime.
	db.RiverClient.PeriodicJobs().Add(
		river.NewPeriodicJob(
			river.PeriodicInterval(24*time.Hour),
			func() (river.JobArgs, *river.InsertOpts) {
				return jobs.AuditCleanupArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	)

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		AuditPoolSize:   cfg.Worker.AuditPoolSize,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	gate := gatekeeper.New(gatekeeper.Config{
		ContactPolicy: ratelimit.Policy{
			MaxSubmissions: cfg.Gatekeeper.ContactRate.MaxSubmissions,
			Window:         cfg.Gatekeeper.ContactRate.Window,
		},
		PortfolioPolicy: ratelimit.Policy{
			MaxSubmissions: cfg.Gatekeeper.PortfolioRate.MaxSubmissions,
			Window:         cfg.Gatekeeper.PortfolioRate.Window,
		},
		MinFillTime: time.Duration(cfg.Gatekeeper.MinFillSeconds * float64(time.Second)),
	}, store, portfolioMailer, jobs.NewDispatcher(db.RiverClient), pools)

	server := handlers.NewServer(handlers.ServerDeps{
		Gatekeeper: gate,
		Store:      store,
		Pool:       db.Pool,
	})

	return &Application{
		Config: cfg,
		Router: newRouter(cfg, server),
		DB:     db,
		Pools:  pools,
	}, nil
}
