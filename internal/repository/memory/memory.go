// Package memory keeps every repository in process memory. Data is lost on
// exit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
)

type store struct {
	mu      sync.RWMutex
	profile *models.Profile
	games   []models.GameRecord
	focus   []models.FocusSession
}

// New returns repositories sharing one in-memory store.
func New() repository.Repositories {
	s := &store{}
	return repository.Repositories{
		Profiles:    &profileRepository{s},
		Games:       &gameRepository{s},
		Focus:       &focusRepository{s},
		Maintenance: &maintenanceRepository{s},
	}
}

type profileRepository struct{ s *store }

func (r *profileRepository) Load(context.Context) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.profile == nil {
		return nil, nil
	}
	p := cloneProfile(*r.s.profile)
	p.EnsureAchievements()
	return &p, nil
}

func (r *profileRepository) Save(_ context.Context, p models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := cloneProfile(p)
	next.Settings = next.Settings.Normalize()
	next.UpdatedAt = updatedAtOrNow(next.UpdatedAt)
	r.s.storeProfile(next)
	return nil
}

func (r *profileRepository) SaveSettings(_ context.Context, settings models.Settings, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := r.s.current()
	next.Settings = settings.Normalize()
	next.UpdatedAt = updatedAtOrNow(updatedAt)
	r.s.profile = &next
	return nil
}

func (r *profileRepository) SaveProgress(_ context.Context, p models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := r.s.current()
	in := cloneProfile(p)
	next.Statistics = in.Statistics
	next.Achievements = in.Achievements
	next.UpdatedAt = updatedAtOrNow(p.UpdatedAt)
	r.s.storeProfile(next)
	return nil
}

// current returns a copy of the stored profile, or a fresh one with no
// achievement rows. Callers hold mu.
func (s *store) current() models.Profile {
	if s.profile == nil {
		p := models.NewProfile()
		p.Achievements = nil
		return *p
	}
	return cloneProfile(*s.profile)
}

// storeProfile keeps every achievement already stored, carrying over unlock
// dates, and merges in next's achievements. Callers hold mu.
func (s *store) storeProfile(next models.Profile) {
	if prev := s.profile; prev != nil {
		incoming := make(map[models.AchievementType]int, len(next.Achievements))
		for i, a := range next.Achievements {
			incoming[a.Type] = i
		}
		for _, old := range prev.Achievements {
			i, ok := incoming[old.Type]
			switch {
			case !ok:
				next.Achievements = append(next.Achievements, old)
			case old.Unlocked():
				next.Achievements[i] = old
			}
		}
	}
	s.profile = &next
}

func updatedAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func cloneProfile(p models.Profile) models.Profile {
	p.Achievements = append([]models.Achievement(nil), p.Achievements...)
	for i, a := range p.Achievements {
		if a.UnlockedAt != nil {
			t := *a.UnlockedAt
			p.Achievements[i].UnlockedAt = &t
		}
	}
	if p.Statistics.LastPlayDate != nil {
		t := *p.Statistics.LastPlayDate
		p.Statistics.LastPlayDate = &t
	}
	return p
}

type gameRepository struct{ s *store }

func (r *gameRepository) Insert(_ context.Context, rec models.GameRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.games = append(r.s.games, rec)
	return nil
}

func (r *gameRepository) History(_ context.Context, limit int) ([]models.GameRecord, error) {
	r.s.mu.RLock()
	out := append([]models.GameRecord(nil), r.s.games...)
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayedAt.After(out[j].PlayedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *gameRepository) CountWonSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, g := range r.s.games {
		if g.Won() && !g.PlayedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type focusRepository struct{ s *store }

func (r *focusRepository) Insert(_ context.Context, session models.FocusSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.focus = append(r.s.focus, session)
	return nil
}

func (r *focusRepository) History(_ context.Context, limit int) ([]models.FocusSession, error) {
	out := r.sorted()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *focusRepository) Since(_ context.Context, t time.Time) ([]models.FocusSession, error) {
	var out []models.FocusSession
	for _, s := range r.sorted() {
		if !s.StartTime.Before(t) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *focusRepository) sorted() []models.FocusSession {
	r.s.mu.RLock()
	out := append([]models.FocusSession(nil), r.s.focus...)
	r.s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

type maintenanceRepository struct{ s *store }

func (r *maintenanceRepository) ClearAll(context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profile = nil
	r.s.games = nil
	r.s.focus = nil
	return nil
}
