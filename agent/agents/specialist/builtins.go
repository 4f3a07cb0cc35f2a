package specialist

import (
	"strings"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

const FinalOutputAgentName = "Final Output Agent"

type Deps struct {
	Catalog *tool.Catalog
	Prompts promptx.PromptSet
}

type builder func(Deps) *contractx.Agent

var builtins = []builder{
	climateAgent,
	healthAgent,
	moneyAgent,
	governmentAgent,
	emigrationAgent,
	paymentAgent,
	energyAgent,
	finalOutputAgent,
}

// NewBuiltinRegistry registers every built-in specialist.
func NewBuiltinRegistry(deps Deps) (*Registry, error) {
	if deps.Catalog == nil {
		deps.Catalog = tool.NewCatalog(tool.Deps{})
	}
	reg := NewRegistry()
	for _, build := range builtins {
		if err := reg.Register(build(deps)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func withTools(a *contractx.Agent, c *tool.Catalog, names ...string) *contractx.Agent {
	if len(names) > 0 {
		a.Tools, a.Execute = c.ForAgent(a.Type, names...)
	}
	return a
}

func instructions(base, topic string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return topic
	}
	return base + "\n" + topic
}

func baseOutput(fields ...contractx.OutputField) *contractx.OutputSchema {
	return &contractx.OutputSchema{Fields: fields}
}
