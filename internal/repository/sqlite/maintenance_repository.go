package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/repository"
)

type maintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("maintenance_repo")
	log.Info("clearing all stored data")

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"focus_sessions", "game_records", "achievements", "profiles"} {
			query, args, err := sqlBuilder.Delete(table).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				log.Error("failed to clear %s: %v", table, err)
				return err
			}
		}
		return nil
	})
}

// New wires every SQLite repository onto one handle.
func New(db *sql.DB) repository.Repositories {
	return repository.Repositories{
		Profiles:    NewProfileRepository(db),
		Games:       NewGameRepository(db),
		Focus:       NewFocusRepository(db),
		Maintenance: NewMaintenanceRepository(db),
	}
}
