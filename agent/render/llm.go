// Package render turns agent outputs into display HTML, either through a
// model or with the built-in cards.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

// LLMRenderer asks the completer for a Tailwind HTML page describing the
// output.
type LLMRenderer struct {
	completer contractx.Completer
	tpl       *promptx.Template
}

var _ contractx.Renderer = (*LLMRenderer)(nil)

func NewLLMRenderer(completer contractx.Completer, prompt string) (*LLMRenderer, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	tpl, err := promptx.NewTemplate("html", schema.User, prompt)
	if err != nil {
		return nil, err
	}
	return &LLMRenderer{completer: completer, tpl: tpl}, nil
}

func (r *LLMRenderer) RenderHTML(ctx context.Context, out contractx.AgentOutput) (contractx.AgentOutput, error) {
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return contractx.AgentOutput{}, fmt.Errorf("encode output: %w", err)
	}

	msg, err := r.tpl.Render(ctx, map[string]any{"input": string(raw)})
	if err != nil {
		return contractx.AgentOutput{}, err
	}

	reply, err := r.completer.Complete(ctx, []contractx.Message{msg}, nil)
	if err != nil {
		return contractx.AgentOutput{}, err
	}

	html := stripFence(reply)
	if !strings.HasPrefix(html, "<") {
		return contractx.AgentOutput{}, fmt.Errorf("%w: renderer did not return html", contractx.ErrSchemaViolation)
	}
	return contractx.TextOutput(contractx.AgentTypeHTML, html), nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
