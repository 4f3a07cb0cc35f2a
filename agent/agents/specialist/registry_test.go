package specialist

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func TestRegistryRegisterAndSeal(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(&contractx.Agent{Name: "Money Agent"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(&contractx.Agent{Name: "Money Agent"}); !errors.Is(err, ErrDuplicateAgent) {
		t.Fatalf("expected ErrDuplicateAgent, got %v", err)
	}
	if err := reg.Register(&contractx.Agent{Name: "  "}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	all := reg.All()
	if len(all) != 1 {
		t.Fatalf("expected one agent, got %d", len(all))
	}
	all[0] = nil
	if reg.All()[0] == nil {
		t.Fatalf("All() must return a copy")
	}

	if err := reg.Register(&contractx.Agent{Name: "Late Agent"}); !errors.Is(err, ErrRegistrySealed) {
		t.Fatalf("expected ErrRegistrySealed, got %v", err)
	}
}

func TestRegistryFindByNameFragment(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_ = reg.Register(&contractx.Agent{Name: "Climate Agent"})
	_ = reg.Register(&contractx.Agent{Name: "Final Output Agent"})

	got, ok := reg.FindByNameFragment("Final")
	if !ok || got.Name != "Final Output Agent" {
		t.Fatalf("unexpected match: %+v %v", got, ok)
	}
	if got, _ := reg.FindByNameFragment("Agent"); got.Name != "Climate Agent" {
		t.Fatalf("expected first registered match, got %s", got.Name)
	}
	if _, ok := reg.FindByNameFragment("final"); ok {
		t.Fatalf("match must be case-sensitive")
	}
	if _, ok := reg.FindByNameFragment("Payment"); ok {
		t.Fatalf("expected no match")
	}
	if _, ok := reg.FindByNameFragment(""); ok {
		t.Fatalf("empty fragment must not match")
	}
}

func TestBuiltinRegistry(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	reg, err := NewBuiltinRegistry(Deps{Catalog: tool.NewCatalog(tool.Deps{}), Prompts: prompts})
	if err != nil {
		t.Fatalf("NewBuiltinRegistry() error = %v", err)
	}

	wantTools := map[string][]string{
		"Climate Agent":      {tool.ClimateTemperature, tool.ClimateEnvironmentRisk, tool.WebSearch},
		"Health Agent":       {tool.WebSearch},
		"Money Agent":        {tool.MoneyFinancialAdvice, tool.MoneyWorldBankIndicator, tool.MoneyECLACIndicator, tool.MathEvaluate, tool.WebSearch},
		"Government Agent":   {tool.GovernmentInfo},
		"Emigration Agent":   {tool.WebSearch},
		"Payment Agent":      {tool.PaymentInitiate, tool.PaymentStatus, tool.MathEvaluate},
		"Energy Agent":       {tool.EnergyRenewableData, tool.EnergySustainabilityTip, tool.WebSearch},
		FinalOutputAgentName: nil,
	}

	all := reg.All()
	if len(all) != len(wantTools) {
		t.Fatalf("expected %d agents, got %d", len(wantTools), len(all))
	}
	for _, a := range all {
		want, ok := wantTools[a.Name]
		if !ok {
			t.Fatalf("unexpected agent %s", a.Name)
		}
		if strings.TrimSpace(a.RoutingHint) == "" || strings.TrimSpace(a.Instructions) == "" {
			t.Fatalf("agent %s misses routing hint or instructions", a.Name)
		}
		if len(a.Tools) != len(want) {
			t.Fatalf("agent %s: expected %d tools, got %d", a.Name, len(want), len(a.Tools))
		}
		for i, info := range a.Tools {
			if info.Name != want[i] {
				t.Fatalf("agent %s: tool %d = %s, want %s", a.Name, i, info.Name, want[i])
			}
		}
		if len(want) > 0 && a.Execute == nil {
			t.Fatalf("agent %s has tools but no executor", a.Name)
		}
	}

	final, ok := reg.FindByNameFragment("Final Output")
	if !ok {
		t.Fatalf("final output agent not registered")
	}
	if final.Instructions != prompts.FinalOutput || final.Output == nil || len(final.Output.Fields) != 4 {
		t.Fatalf("unexpected final output agent: %+v", final)
	}
}

func TestBuiltinToolIsolation(t *testing.T) {
	t.Parallel()

	reg, err := NewBuiltinRegistry(Deps{Prompts: promptx.LoadPromptSet()})
	if err != nil {
		t.Fatalf("NewBuiltinRegistry() error = %v", err)
	}
	health, _ := reg.FindByNameFragment("Health")

	res, err := health.Execute(context.Background(), tool.PaymentInitiate, map[string]any{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Error == "" {
		t.Fatalf("health agent must not reach payment tools")
	}
}
