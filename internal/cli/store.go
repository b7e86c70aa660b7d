package cli

import (
	"github.com/vytor/pixelplay/internal/config"
	"github.com/vytor/pixelplay/internal/db"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/repository/memory"
	"github.com/vytor/pixelplay/internal/repository/sqlite"
)

// store is the configured persistence backend. database is nil for memory
// storage.
type store struct {
	repos    repository.Repositories
	database *db.DB
}

func openStore(cfg config.Config) (*store, error) {
	log := logger.Default()

	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on exit")
		return &store{repos: memory.New()}, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	log.Debug("database opened: %s", cfg.DBPath)
	return &store{repos: sqlite.New(database.DB), database: database}, nil
}

func (s *store) Close() {
	if s.database == nil {
		return
	}
	logger.Default().Debug("closing database connection")
	if err := s.database.Close(); err != nil {
		logger.Default().Error("failed to close database: %v", err)
	}
}
