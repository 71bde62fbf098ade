// Package main seeds the audit store with sample submissions.
//
// Intended for local development: gives the admin review API something to
// list without posting real forms. Applies migrations first, so a fresh
// database works out of the box.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"maraisroos.co.za/formgate/internal/audit"
	"maraisroos.co.za/formgate/internal/config"
	"maraisroos.co.za/formgate/internal/domain"
	"maraisroos.co.za/formgate/internal/infrastructure"
	"maraisroos.co.za/formgate/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(ctx); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	store := audit.NewStore(db.Pool)
	now := time.Now().UTC()

	contacts := []*domain.ContactRecord{
		{
			Name:      "Thandi Nkosi",
			Email:     "thandi@consulting.example.com",
			Message:   "Hi Marais, I saw your portfolio and would love a quote for a small business site.",
			Status:    domain.ContactStatusNew,
			IPHash:    domain.HashIdentity("203.0.113.10"),
			UserAgent: "seed",
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			Name:      "Pieter van Wyk",
			Email:     "pieter@studio.example.org",
			Message:   "We need a redesign of our landing page, are you available next month?",
			Status:    domain.ContactStatusRead,
			IPHash:    domain.HashIdentity("203.0.113.11"),
			UserAgent: "seed",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Name:      "casino promo",
			Email:     "winner@mailinator.com",
			Message:   "Congratulations! Click here to claim your free casino bonus today!",
			Status:    domain.ContactStatusSpam,
			IPHash:    domain.HashIdentity("198.51.100.7"),
			UserAgent: "seed",
			Reason:    domain.ReasonSpamContent,
			CreatedAt: now.Add(-12 * time.Hour),
		},
	}
	for _, rec := range contacts {
		if err := store.CreateContact(ctx, rec); err != nil {
			return fmt.Errorf("seed contact %q: %w", rec.Email, err)
		}
	}

	requests := []*domain.PortfolioRecord{
		{
			Email:       "recruiter@agency.example.com",
			Status:      domain.PortfolioStatusSent,
			Source:      "portfolio-form",
			IPHash:      domain.HashIdentity("203.0.113.12"),
			UserAgent:   "seed",
			Notes:       "Professional email domain",
			RequestedAt: now.Add(-72 * time.Hour),
		},
		{
			Email:       "hiring@gmail.com",
			Status:      domain.PortfolioStatusContacted,
			Source:      "portfolio-form",
			IPHash:      domain.HashIdentity("203.0.113.13"),
			UserAgent:   "seed",
			Notes:       "Free email provider",
			RequestedAt: now.Add(-36 * time.Hour),
		},
	}
	for _, rec := range requests {
		if err := store.CreatePortfolioRequest(ctx, rec); err != nil {
			return fmt.Errorf("seed portfolio request %q: %w", rec.Email, err)
		}
	}

	logger.Info("Seed completed",
		zap.Int("contacts", len(contacts)),
		zap.Int("portfolio_requests", len(requests)),
	)
	return nil
}
