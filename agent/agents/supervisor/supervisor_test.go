package supervisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

type recordingRunner struct {
	mu     sync.Mutex
	agents []*contractx.Agent
	inputs [][]contractx.Message
	result contractx.RunResult
	err    error
}

func (r *recordingRunner) Run(ctx context.Context, agent *contractx.Agent, input []contractx.Message) (contractx.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents = append(r.agents, agent)
	r.inputs = append(r.inputs, input)
	return r.result, r.err
}

func testRoster() []*contractx.Agent {
	return []*contractx.Agent{
		{Name: "Climate Agent", RoutingHint: "clima"},
		{Name: "Money Agent"},
	}
}

func TestNewBuildsRoot(t *testing.T) {
	t.Parallel()

	prompts := promptx.PromptSet{Base: "BASE", Supervisor: "DEFAULT", Roster: "Directrices:"}
	s, err := New(&recordingRunner{}, testRoster(), prompts, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	root := s.Root()
	if root.Name != RootName || s.RootName() != "Main Assistant" {
		t.Fatalf("unexpected root name: %s", root.Name)
	}
	if len(root.Handoffs) != 2 {
		t.Fatalf("expected 2 handoffs, got %d", len(root.Handoffs))
	}
	want := "BASE\n\nDEFAULT\n\nDirectrices:\n4. Recursos especializados disponibles (2):\n" +
		"   - Climate Agent: clima\n" +
		"   - Money Agent: Para consultas relevantes."
	if root.Instructions != want {
		t.Fatalf("unexpected instructions:\n%s", root.Instructions)
	}
}

func TestSetPromptSwapsRoot(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{result: contractx.RunResult{LastAgent: "Money Agent"}}
	s, err := New(runner, testRoster(), promptx.PromptSet{Supervisor: "DEFAULT"}, "custom")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	before := s.Root()
	if !strings.Contains(before.Instructions, "custom") {
		t.Fatalf("configured prompt not used: %q", before.Instructions)
	}

	s.SetPrompt("updated")
	after := s.Root()
	if after == before || !strings.Contains(after.Instructions, "updated") || strings.Contains(after.Instructions, "custom") {
		t.Fatalf("root was not rebuilt: %q", after.Instructions)
	}
	if !strings.Contains(before.Instructions, "custom") {
		t.Fatalf("old root must stay untouched")
	}

	res, err := s.Route(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if res.LastAgent != "Money Agent" {
		t.Fatalf("unexpected last agent: %s", res.LastAgent)
	}
	if runner.agents[0] != after {
		t.Fatalf("route must use the current root")
	}
	if in := runner.inputs[0]; len(in) != 1 || in[0].Role != contractx.RoleUser || in[0].Content != "hola" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestRoutePropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s, err := New(&recordingRunner{err: boom}, nil, promptx.PromptSet{}, "p")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Route(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNewRequiresRunner(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil, promptx.PromptSet{}, ""); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
