// Package supervisor builds the dispatcher root agent and routes user turns
// through it.
package supervisor

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

const RootName = "Main Assistant"

type Supervisor struct {
	runner   contractx.AgentRunner
	roster   []*contractx.Agent
	preamble string
	rosterTx string

	root atomic.Pointer[contractx.Agent]
}

var _ contractx.Dispatcher = (*Supervisor)(nil)

// New builds the root over roster. prompt is the configurable dispatcher
// prompt; an empty value falls back to the embedded default.
func New(runner contractx.AgentRunner, roster []*contractx.Agent, prompts promptx.PromptSet, prompt string) (*Supervisor, error) {
	if runner == nil {
		return nil, fmt.Errorf("%w: agent runner is required", contractx.ErrValidation)
	}
	s := &Supervisor{
		runner:   runner,
		roster:   append([]*contractx.Agent(nil), roster...),
		preamble: prompts.Base,
		rosterTx: RosterDescription(prompts.Roster, roster),
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = prompts.Supervisor
	}
	s.SetPrompt(prompt)
	return s, nil
}

// SetPrompt rebuilds the root with a new dispatcher prompt. Turns already
// routing keep the root they started with.
func (s *Supervisor) SetPrompt(prompt string) {
	s.root.Store(&contractx.Agent{
		Name:         RootName,
		Type:         contractx.AgentTypeSupervisor,
		Instructions: joinSections(s.preamble, prompt, s.rosterTx),
		Handoffs:     s.roster,
	})
}

func (s *Supervisor) Root() *contractx.Agent {
	return s.root.Load()
}

func (s *Supervisor) RootName() string {
	return RootName
}

func (s *Supervisor) Route(ctx context.Context, text string) (contractx.RunResult, error) {
	return s.runner.Run(ctx, s.root.Load(), []contractx.Message{{Role: contractx.RoleUser, Content: text}})
}

// RosterDescription renders the conversation guidelines followed by one line
// per available specialist.
func RosterDescription(guidelines string, roster []*contractx.Agent) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(guidelines))
	fmt.Fprintf(&b, "\n4. Recursos especializados disponibles (%d):\n", len(roster))
	for _, a := range roster {
		hint := strings.TrimSpace(a.RoutingHint)
		if hint == "" {
			hint = "Para consultas relevantes."
		}
		fmt.Fprintf(&b, "   - %s: %s\n", a.Name, hint)
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinSections(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
