package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
)

type focusRepository struct {
	db *sql.DB
}

// NewFocusRepository creates a new FocusRepository implementation
func NewFocusRepository(db *sql.DB) repository.FocusRepository {
	return &focusRepository{db: db}
}

func (r *focusRepository) Insert(ctx context.Context, s models.FocusSession) error {
	log := logger.FromContext(ctx).WithPrefix("focus_repo")
	log.Debug("inserting focus session: id=%s completed=%t", s.ID, s.Completed)

	query, args, err := sqlBuilder.Insert("focus_sessions").
		Columns("id", "type", "start_time", "duration_ns", "completed", "end_time").
		Values(s.ID, s.Type.String(), utc(s.StartTime), int64(s.Duration), s.Completed, nullTime(s.EndTime)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert focus session: %v", err)
		return err
	}
	return nil
}

func (r *focusRepository) History(ctx context.Context, limit int) ([]models.FocusSession, error) {
	q := r.selectSessions()
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.list(ctx, q)
}

func (r *focusRepository) Since(ctx context.Context, t time.Time) ([]models.FocusSession, error) {
	return r.list(ctx, r.selectSessions().Where(squirrel.GtOrEq{"start_time": utc(t)}))
}

func (r *focusRepository) selectSessions() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "type", "start_time", "duration_ns", "completed", "end_time").
		From("focus_sessions").
		OrderBy("start_time DESC", "id")
}

func (r *focusRepository) list(ctx context.Context, b squirrel.SelectBuilder) ([]models.FocusSession, error) {
	log := logger.FromContext(ctx).WithPrefix("focus_repo")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list focus sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.FocusSession
	for rows.Next() {
		var (
			s        models.FocusSession
			typ      string
			duration int64
			end      sql.NullTime
		)
		if err := rows.Scan(&s.ID, &typ, &s.StartTime, &duration, &s.Completed, &end); err != nil {
			log.Error("failed to scan focus row: %v", err)
			return nil, err
		}
		s.Type = models.FocusTypeOrDefault(typ)
		s.Duration = time.Duration(duration)
		s.EndTime = timePtr(end)
		sessions = append(sessions, s)
	}
	log.Debug("found %d focus sessions", len(sessions))
	return sessions, rows.Err()
}
