package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

type AgentType string

const (
	AgentTypeSupervisor  AgentType = "supervisor"
	AgentTypeClimate     AgentType = "climate"
	AgentTypeHealth      AgentType = "health"
	AgentTypeMoney       AgentType = "money"
	AgentTypeGovernment  AgentType = "government"
	AgentTypeEmigration  AgentType = "emigration"
	AgentTypePayment     AgentType = "payment"
	AgentTypeEnergy      AgentType = "energy"
	AgentTypeFinalOutput AgentType = "final_output"
	AgentTypeHTML        AgentType = "html"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Phase string

const (
	PhaseStart  Phase = "start"
	PhasePrompt Phase = "prompt"
	PhaseStop   Phase = "stop"
)

type ResponseType string

const (
	ResponseTypeResponse      ResponseType = "response"
	ResponseTypeFinalResponse ResponseType = "final_response"
)

// Request is one inbound phase-tagged conversation request.
type Request struct {
	Type     Phase          `json:"type"`
	UserID   string         `json:"user_id"`
	UserData map[string]any `json:"user_data,omitempty"`
	Data     string         `json:"data,omitempty"`
}

type Response struct {
	Type       ResponseType `json:"type"`
	UserID     string       `json:"user_id"`
	Data       AgentOutput  `json:"data"`
	PainPoints []string     `json:"pain_points"`
	GoodPoints []string     `json:"good_points"`
	LastAgent  string       `json:"last_agent,omitempty"`
	HTMLData   string       `json:"html_data,omitempty"`

	// Fallback is set when an upstream failure was replaced by canned text.
	Fallback bool `json:"-"`
}

type Points struct {
	PainPoints []string `json:"pain_points"`
	GoodPoints []string `json:"good_points"`
}

// ResponseSchema constrains a completion to a JSON schema.
type ResponseSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// AgentOutput is the structured answer of an agent. Domain specific fields are
// flattened next to agent_type/status/data when encoded.
type AgentOutput struct {
	AgentType string
	Status    string
	Data      string
	Fields    map[string]any
}

func TextOutput(agentType AgentType, text string) AgentOutput {
	return AgentOutput{
		AgentType: string(agentType),
		Status:    StatusSuccess,
		Data:      text,
	}
}

func (o AgentOutput) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(o.Fields)+3)
	for k, v := range o.Fields {
		m[k] = v
	}
	m["agent_type"] = o.AgentType
	m["status"] = o.Status
	if o.Data != "" {
		m["data"] = o.Data
	}
	return json.Marshal(m)
}

func (o *AgentOutput) UnmarshalJSON(raw []byte) error {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*o = AgentOutputFromMap(m)
	return nil
}

func AgentOutputFromMap(m map[string]any) AgentOutput {
	var out AgentOutput
	for k, v := range m {
		switch k {
		case "agent_type":
			out.AgentType = stringValue(v)
		case "status":
			out.Status = stringValue(v)
		case "data":
			out.Data = stringValue(v)
		default:
			if out.Fields == nil {
				out.Fields = make(map[string]any, len(m))
			}
			out.Fields[k] = v
		}
	}
	return out
}

// Text returns the human readable part of the output.
func (o AgentOutput) Text() string {
	if s := strings.TrimSpace(o.Data); s != "" {
		return s
	}
	if s, ok := o.Fields["html_summary"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(raw)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

type OutputField struct {
	Name     string
	Type     string
	Desc     string
	Required bool
}

// OutputSchema describes the JSON object an agent must answer with.
type OutputSchema struct {
	Fields []OutputField
}

type ToolExecutor func(ctx context.Context, tool string, args map[string]any) (ToolResult, error)

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Agent is a routable responder: a specialist or the dispatcher root.
type Agent struct {
	Name         string
	Type         AgentType
	RoutingHint  string
	Instructions string
	Tools        []*schema.ToolInfo
	Execute      ToolExecutor
	Output       *OutputSchema
	Handoffs     []*Agent
}

// WithInstructions returns a shallow copy of a with new instructions.
func (a *Agent) WithInstructions(instructions string) *Agent {
	cp := *a
	cp.Instructions = instructions
	return &cp
}

type RunResult struct {
	Output    AgentOutput
	LastAgent string
}

type FinalReport struct {
	ReportID   string      `json:"report_id"`
	UserID     string      `json:"user_id"`
	LastAgent  string      `json:"last_agent,omitempty"`
	Summary    AgentOutput `json:"summary"`
	PainPoints []string    `json:"pain_points"`
	GoodPoints []string    `json:"good_points"`
	CreatedAt  time.Time   `json:"created_at"`
}
