package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

var outputParser = schema.NewMessageJSONParser[map[string]any](&schema.MessageJSONParseConfig{
	ParseFrom: schema.MessageParseFromContent,
})

// systemPrompt is the agent instructions plus, for structured agents, the
// JSON contract of the answer.
func systemPrompt(agent *contractx.Agent) string {
	instructions := strings.TrimSpace(agent.Instructions)
	if agent.Output == nil {
		return instructions
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nResponde únicamente con un objeto JSON válido, sin texto adicional, con estos campos:\n")
	fmt.Fprintf(&b, "- agent_type (string): siempre \"%s\"\n", agent.Type)
	b.WriteString("- status (string): \"success\" o \"error\"\n")
	b.WriteString("- data (string): la respuesta para el usuario\n")
	for _, f := range agent.Output.Fields {
		req := "opcional"
		if f.Required {
			req = "obligatorio"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", f.Name, f.Type, req, f.Desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func finalOutput(agent *contractx.Agent, content string) (contractx.AgentOutput, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return contractx.AgentOutput{}, fmt.Errorf("%w: agent=%s returned empty content", contractx.ErrSchemaViolation, agent.Name)
	}
	if agent.Output == nil {
		return contractx.TextOutput(agent.Type, content), nil
	}

	m, err := outputParser.Parse(context.Background(), schema.AssistantMessage(stripCodeFence(content), nil))
	if err != nil || m == nil {
		return contractx.TextOutput(agent.Type, content), nil
	}

	out := contractx.AgentOutputFromMap(m)
	if out.AgentType == "" {
		out.AgentType = string(agent.Type)
	}
	if out.Status == "" {
		out.Status = contractx.StatusSuccess
	}
	return out, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
