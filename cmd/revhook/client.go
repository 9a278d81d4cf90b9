package main

import (
	"context"
	"fmt"
	"time"

	"github.com/garrettladley/revhook/internal/client/revolut"
	"github.com/garrettladley/revhook/internal/config"
	"github.com/garrettladley/revhook/internal/ledger"
	"github.com/garrettladley/revhook/internal/paths"
)

func newClient() (*revolut.Client, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Revolut.Validate(); err != nil {
		return nil, err
	}

	opts := append(cfg.Revolut.Options(), revolut.WithTimeout(30*time.Second))
	return revolut.New(revolut.StaticSecret(cfg.Revolut.Secret), opts...), nil
}

func openLedger(ctx context.Context) (*ledger.Ledger, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	path := cfg.DBPath
	if path == "" {
		if _, err := paths.EnsureDir(); err != nil {
			return nil, err
		}
		if path, err = paths.DB(); err != nil {
			return nil, err
		}
	}

	return ledger.Open(ctx, path)
}
