package repository

import (
	"context"
	"time"

	"github.com/vytor/pixelplay/internal/models"
)

// ProfileRepository stores the single user profile with its settings,
// statistics and achievements.
type ProfileRepository interface {
	// Load returns nil, nil when no profile has been saved yet.
	Load(ctx context.Context) (*models.Profile, error)
	// Save overwrites the profile. Achievement unlock dates already stored
	// are kept.
	Save(ctx context.Context, profile models.Profile) error
	// SaveSettings writes the settings only.
	SaveSettings(ctx context.Context, settings models.Settings, updatedAt time.Time) error
	// SaveProgress writes statistics and achievements, leaving settings as
	// stored.
	SaveProgress(ctx context.Context, profile models.Profile) error
}

// GameRepository stores finished games.
type GameRepository interface {
	Insert(ctx context.Context, record models.GameRecord) error
	// History returns up to limit records, newest first. A limit of zero or
	// less returns every record.
	History(ctx context.Context, limit int) ([]models.GameRecord, error)
	CountWonSince(ctx context.Context, since time.Time) (int, error)
}

// FocusRepository stores finalized focus sessions.
type FocusRepository interface {
	Insert(ctx context.Context, session models.FocusSession) error
	// History returns up to limit sessions, newest first. A limit of zero or
	// less returns every session.
	History(ctx context.Context, limit int) ([]models.FocusSession, error)
	// Since returns every session started at or after t, newest first.
	Since(ctx context.Context, t time.Time) ([]models.FocusSession, error)
}

// MaintenanceRepository wipes all stored data.
type MaintenanceRepository interface {
	ClearAll(ctx context.Context) error
}

// Repositories bundles one implementation of each store.
type Repositories struct {
	Profiles    ProfileRepository
	Games       GameRepository
	Focus       FocusRepository
	Maintenance MaintenanceRepository
}
