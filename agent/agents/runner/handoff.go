package runner

import (
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handoffPrefix = "transfer_to_"

// ToolName turns an agent name into a tool-safe identifier: "Money Agent"
// becomes "money_agent".
func ToolName(agentName string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(agentName) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func HandoffToolName(agentName string) string {
	return handoffPrefix + ToolName(agentName)
}

func handoffTools(agent *contractx.Agent) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(agent.Handoffs))
	for _, h := range agent.Handoffs {
		if h == nil {
			continue
		}
		desc := strings.TrimSpace(h.RoutingHint)
		if desc == "" {
			desc = "Transfiere la conversación a " + h.Name + "."
		}
		out = append(out, &schema.ToolInfo{
			Name: HandoffToolName(h.Name),
			Desc: desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reason": {Type: schema.String, Desc: "Motivo breve de la transferencia"},
			}),
		})
	}
	return out
}

func handoffTarget(agent *contractx.Agent, toolName string) *contractx.Agent {
	if !strings.HasPrefix(toolName, handoffPrefix) {
		return nil
	}
	for _, h := range agent.Handoffs {
		if h != nil && HandoffToolName(h.Name) == toolName {
			return h
		}
	}
	return nil
}

func traceAttrs(from, to string) trace.EventOption {
	return trace.WithAttributes(
		attribute.String("handoff.from", from),
		attribute.String("handoff.to", to),
	)
}
