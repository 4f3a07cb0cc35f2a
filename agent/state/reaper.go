package state

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultSessionTTL   = 24 * time.Hour
	DefaultReapInterval = 10 * time.Minute
)

// Reaper evicts sessions that never received a stop.
type Reaper struct {
	store    *MemoryStore
	ttl      time.Duration
	interval time.Duration
}

func NewReaper(store *MemoryStore, ttl, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &Reaper{store: store, ttl: ttl, interval: interval}
}

// Run sweeps on every tick until ctx is done. A zero ttl disables reaping and
// Run returns immediately.
func (r *Reaper) Run(ctx context.Context) error {
	if r.ttl <= 0 || r.store == nil {
		log.Info().Msg("session reaper disabled")
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("ttl", r.ttl).Dur("interval", r.interval).Msg("session reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session reaper stopped")
			return nil
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Reaper) sweep() {
	removed := r.store.Reap(r.ttl)
	if len(removed) == 0 {
		return
	}
	log.Info().
		Int("count", len(removed)).
		Strs("user_ids", removed).
		Msg("reaped idle sessions")
}
