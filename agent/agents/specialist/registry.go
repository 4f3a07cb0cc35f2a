// Package specialist defines the specialist roster the dispatcher can hand
// off to.
package specialist

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

var (
	ErrDuplicateAgent = errors.New("agent already registered")
	ErrRegistrySealed = errors.New("registry is sealed")
)

// Registry holds specialists in registration order. The first call to All
// seals it.
type Registry struct {
	mu     sync.Mutex
	agents []*contractx.Agent
	names  map[string]struct{}
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

func (r *Registry) Register(agent *contractx.Agent) error {
	if agent == nil {
		return fmt.Errorf("%w: agent is nil", contractx.ErrValidation)
	}
	name := strings.TrimSpace(agent.Name)
	if name == "" {
		return fmt.Errorf("%w: agent name is required", contractx.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: register %s", ErrRegistrySealed, name)
	}
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, name)
	}
	r.names[name] = struct{}{}
	r.agents = append(r.agents, agent)
	return nil
}

func (r *Registry) All() []*contractx.Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
	return append([]*contractx.Agent(nil), r.agents...)
}

// FindByNameFragment returns the first agent, in registration order, whose
// name contains fragment.
func (r *Registry) FindByNameFragment(fragment string) (*contractx.Agent, bool) {
	if strings.TrimSpace(fragment) == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.agents {
		if strings.Contains(a.Name, fragment) {
			return a, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}
