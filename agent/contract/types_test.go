package contract

import (
	"encoding/json"
	"testing"
)

func TestAgentOutputFlattensDomainFields(t *testing.T) {
	t.Parallel()

	out := AgentOutput{
		AgentType: string(AgentTypeEnergy),
		Status:    StatusSuccess,
		Data:      "usa paneles solares",
		Fields:    map[string]any{"country": "Chile"},
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if flat["country"] != "Chile" {
		t.Fatalf("country = %v, want Chile", flat["country"])
	}
	if flat["agent_type"] != "energy" {
		t.Fatalf("agent_type = %v, want energy", flat["agent_type"])
	}

	var back AgentOutput
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal(AgentOutput) error = %v", err)
	}
	if back.Data != out.Data || back.Fields["country"] != "Chile" {
		t.Fatalf("unexpected decoded output: %#v", back)
	}
}

func TestAgentOutputText(t *testing.T) {
	t.Parallel()

	if got := TextOutput(AgentTypeHTML, " hola ").Text(); got != "hola" {
		t.Fatalf("Text() = %q, want %q", got, "hola")
	}

	summary := AgentOutput{
		AgentType: string(AgentTypeFinalOutput),
		Status:    StatusSuccess,
		Fields:    map[string]any{"html_summary": "<p>resumen</p>"},
	}
	if got := summary.Text(); got != "<p>resumen</p>" {
		t.Fatalf("Text() = %q, want html summary", got)
	}

	bare := AgentOutput{AgentType: "money", Status: StatusError}
	if got := bare.Text(); got == "" {
		t.Fatal("Text() must fall back to the encoded output")
	}
}
