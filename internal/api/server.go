package api

import (
	"context"

	"github.com/vytor/pixelplay/internal/services"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	GameService    services.GameService
	FocusService   services.FocusService
	ProfileService services.ProfileService
	StatsService   services.StatsService
	// DB is nil when running on in-memory storage.
	DB Pinger
	// HistoryLimit caps history listings when the request gives no limit.
	HistoryLimit int
}
