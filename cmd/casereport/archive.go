package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/casereport/internal/archive"
)

func connectArchive(ctx context.Context, log zerolog.Logger) (*pgxpool.Pool, error) {
	if err := cfg.RequireDSN(); err != nil {
		return nil, err
	}
	return archive.NewPool(ctx, cfg.DSN, log)
}
