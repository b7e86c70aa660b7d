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

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Insert(ctx context.Context, rec models.GameRecord) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("inserting game record: id=%s state=%s", rec.ID, rec.State)

	left := rec.PowerUpsRemaining
	query, args, err := sqlBuilder.Insert("game_records").
		Columns("id", "difficulty", "state", "score", "time_remaining", "moves_used", "hints_used",
			"time_boosts_left", "hint_reveals_left", "color_matches_left", "grid_clears_left",
			"current_streak", "played_at").
		Values(rec.ID, rec.Difficulty.String(), rec.State.String(), rec.Score, rec.TimeRemaining, rec.MovesUsed, rec.HintsUsed,
			left[models.PowerUpTimeBoost], left[models.PowerUpHintReveal], left[models.PowerUpColorMatch], left[models.PowerUpGridClear],
			rec.CurrentStreak, utc(rec.PlayedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert game record: %v", err)
		return err
	}
	return nil
}

func (r *gameRepository) History(ctx context.Context, limit int) ([]models.GameRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("loading game history: limit=%d", limit)

	q := sqlBuilder.Select("id", "difficulty", "state", "score", "time_remaining", "moves_used", "hints_used",
		"time_boosts_left", "hint_reveals_left", "color_matches_left", "grid_clears_left",
		"current_streak", "played_at").
		From("game_records").
		OrderBy("played_at DESC", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load game history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var (
			rec               models.GameRecord
			difficulty, state string
			left              = &rec.PowerUpsRemaining
		)
		if err := rows.Scan(&rec.ID, &difficulty, &state, &rec.Score, &rec.TimeRemaining, &rec.MovesUsed, &rec.HintsUsed,
			&left[models.PowerUpTimeBoost], &left[models.PowerUpHintReveal], &left[models.PowerUpColorMatch], &left[models.PowerUpGridClear],
			&rec.CurrentStreak, &rec.PlayedAt); err != nil {
			log.Error("failed to scan game row: %v", err)
			return nil, err
		}
		rec.Difficulty = models.DifficultyOrDefault(difficulty)
		rec.State = models.GameStateOrFailed(state)
		records = append(records, rec)
	}
	log.Debug("found %d game records", len(records))
	return records, rows.Err()
}

func (r *gameRepository) CountWonSince(ctx context.Context, since time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("game_records").
		Where(squirrel.Eq{"state": models.GameCompleted.String()}).
		Where(squirrel.GtOrEq{"played_at": utc(since)}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Error("failed to count won games: %v", err)
		return 0, err
	}
	return n, nil
}
