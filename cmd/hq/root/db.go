package root

import (
	"context"
	"database/sql"

	"habitquest/internal/engine"
	"habitquest/internal/feed"
	"habitquest/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened database", "path", path)
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// serviceOptions turns the loaded config into engine options for userID.
func serviceOptions(userID string) engine.Options {
	return engine.Options{
		UserID:          userID,
		DisplayName:     cfg.DisplayName,
		StreakCap:       cfg.StreakCap,
		WheelExtraTurns: cfg.WheelExtraTurns,
		Feed:            feed.New(cfg.FeedURL, cfg.FeedTimeout),
		Logger:          logger,
	}
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := engine.Open(ctx, storage.NewKVRepo(db), serviceOptions(cfg.User))
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
