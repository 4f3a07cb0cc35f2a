// Package settings holds the editable prompts of the supervisor and the final
// output agent, persisted through a pluggable Store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

var ErrNotFound = errors.New("settings not found")

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Prompts struct {
	Supervisor  string `json:"prompt"`
	FinalOutput string `json:"final_output_prompt"`
}

func (p Prompts) Validate() error {
	if strings.TrimSpace(p.Supervisor) == "" {
		return fmt.Errorf("%w: prompt is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(p.FinalOutput) == "" {
		return fmt.Errorf("%w: final_output_prompt is required", contractx.ErrValidation)
	}
	return nil
}

func (p Prompts) normalized() Prompts {
	return Prompts{
		Supervisor:  strings.TrimSpace(p.Supervisor),
		FinalOutput: strings.TrimSpace(p.FinalOutput),
	}
}

type Store interface {
	Load(ctx context.Context) (Prompts, error)
	Save(ctx context.Context, p Prompts) error
}

// Service serves the live prompts. Readers get a consistent snapshot while an
// update is in flight.
type Service struct {
	store   Store
	current atomic.Pointer[Prompts]

	mu        sync.Mutex
	observers []func(Prompts)
}

// NewService loads the stored prompts, falling back to defaults for missing or
// unreadable settings.
func NewService(ctx context.Context, store Store, defaults Prompts) (*Service, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	s := &Service{store: store}
	loaded, err := store.Load(ctx)
	switch {
	case err == nil:
		if loaded.Supervisor == "" {
			loaded.Supervisor = defaults.Supervisor
		}
		if loaded.FinalOutput == "" {
			loaded.FinalOutput = defaults.FinalOutput
		}
	case errors.Is(err, ErrNotFound):
		loaded = defaults
	default:
		log.Warn().Err(err).Msg("load settings failed, using defaults")
		loaded = defaults
	}

	p := loaded.normalized()
	s.current.Store(&p)
	return s, nil
}

func (s *Service) Current() Prompts {
	return *s.current.Load()
}

// OnUpdate registers fn to run after every successful Update.
func (s *Service) OnUpdate(fn func(Prompts)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Update validates, persists and publishes the new prompts.
func (s *Service) Update(ctx context.Context, p Prompts) (Prompts, error) {
	if err := p.Validate(); err != nil {
		return Prompts{}, err
	}
	p = p.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, p); err != nil {
		return Prompts{}, fmt.Errorf("save settings: %w", err)
	}
	s.current.Store(&p)
	for _, fn := range s.observers {
		fn(p)
	}
	log.Info().Int("prompt_len", len(p.Supervisor)).Int("final_output_prompt_len", len(p.FinalOutput)).Msg("settings updated")
	return p, nil
}

// MemoryStore keeps settings for the process lifetime only.
type MemoryStore struct {
	mu  sync.RWMutex
	p   Prompts
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (Prompts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return Prompts{}, ErrNotFound
	}
	return m.p, nil
}

func (m *MemoryStore) Save(_ context.Context, p Prompts) error {
	m.mu.Lock()
	m.p = p
	m.set = true
	m.mu.Unlock()
	return nil
}
