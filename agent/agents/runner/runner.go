// Package runner executes agents over eino chat models. Handoffs are exposed
// to the model as transfer_to_<agent> tools; capabilities run through the
// agent's ToolExecutor.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	llmx "github.com/tanpawarit/guide-life-agents/agent/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxTurns = 10

var tracer = otel.Tracer("github.com/tanpawarit/guide-life-agents/agent/agents/runner")

type Runner struct {
	models   llmx.ModelProvider
	maxTurns int

	mu     sync.Mutex
	graphs map[string]compose.Runnable[[]*schema.Message, *schema.Message]
}

var _ contractx.AgentRunner = (*Runner)(nil)

func New(models llmx.ModelProvider, maxTurns int) (*Runner, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: model provider is required", contractx.ErrValidation)
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Runner{
		models:   models,
		maxTurns: maxTurns,
		graphs:   make(map[string]compose.Runnable[[]*schema.Message, *schema.Message]),
	}, nil
}

// Run drives agent until some agent answers without calling tools. The input
// is replayed to every agent that receives a handoff.
func (r *Runner) Run(ctx context.Context, agent *contractx.Agent, input []contractx.Message) (contractx.RunResult, error) {
	if agent == nil {
		return contractx.RunResult{}, fmt.Errorf("%w: agent is nil", contractx.ErrValidation)
	}
	if len(input) == 0 {
		return contractx.RunResult{}, fmt.Errorf("%w: agent input is empty", contractx.ErrValidation)
	}

	ctx, span := tracer.Start(ctx, "agent.run")
	defer span.End()
	span.SetAttributes(attribute.String("agent.start", agent.Name))

	base := toSchemaMessages(input)
	current := agent
	conversation := append([]*schema.Message(nil), base...)

	for turn := 0; turn < r.maxTurns; turn++ {
		graph, err := r.graphFor(ctx, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "compile")
			return contractx.RunResult{}, err
		}

		msgs := make([]*schema.Message, 0, len(conversation)+1)
		msgs = append(msgs, schema.SystemMessage(systemPrompt(current)))
		msgs = append(msgs, conversation...)

		resp, err := graph.Invoke(ctx, msgs)
		if err != nil {
			err = fmt.Errorf("%w: agent=%s: %v", contractx.ErrModelInvoke, current.Name, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invoke")
			return contractx.RunResult{}, err
		}
		if resp == nil {
			return contractx.RunResult{}, fmt.Errorf("%w: agent=%s returned nil message", contractx.ErrSchemaViolation, current.Name)
		}

		if len(resp.ToolCalls) == 0 {
			out, err := finalOutput(current, resp.Content)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "output")
				return contractx.RunResult{}, err
			}
			span.SetAttributes(attribute.String("agent.last", current.Name), attribute.Int("agent.turns", turn+1))
			return contractx.RunResult{Output: out, LastAgent: current.Name}, nil
		}

		next, replies, err := r.handleToolCalls(ctx, current, resp.ToolCalls)
		if err != nil {
			return contractx.RunResult{}, err
		}
		if next != nil {
			log.Debug().Str("from", current.Name).Str("to", next.Name).Msg("agent handoff")
			span.AddEvent("handoff", traceAttrs(current.Name, next.Name))
			current = next
			conversation = append([]*schema.Message(nil), base...)
			continue
		}

		conversation = append(conversation, resp)
		conversation = append(conversation, replies...)
	}

	span.SetStatus(codes.Error, "max turns")
	return contractx.RunResult{}, fmt.Errorf("%w: agent=%s after %d turns", contractx.ErrMaxTurns, current.Name, r.maxTurns)
}

// handleToolCalls answers every call. The first handoff wins; when one
// happens the capability calls of the same message are not executed.
func (r *Runner) handleToolCalls(ctx context.Context, agent *contractx.Agent, calls []schema.ToolCall) (*contractx.Agent, []*schema.Message, error) {
	for _, call := range calls {
		if target := handoffTarget(agent, call.Function.Name); target != nil {
			return target, nil, nil
		}
	}

	replies := make([]*schema.Message, 0, len(calls))
	for _, call := range calls {
		res, err := executeTool(ctx, agent, call)
		if err != nil {
			return nil, nil, err
		}
		raw, err := json.Marshal(res)
		if err != nil {
			raw = []byte(fmt.Sprintf(`{"tool":%q,"error":"unencodable result"}`, call.Function.Name))
		}
		replies = append(replies, schema.ToolMessage(string(raw), call.ID))
	}
	return nil, replies, nil
}

func executeTool(ctx context.Context, agent *contractx.Agent, call schema.ToolCall) (contractx.ToolResult, error) {
	name := strings.TrimSpace(call.Function.Name)
	if agent.Execute == nil {
		return contractx.ToolResult{Tool: name, Error: fmt.Sprintf("agent=%s has no tools", agent.Name)}, nil
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{Tool: name, Error: fmt.Sprintf("invalid arguments: %v", err)}, nil
		}
	}

	res, err := agent.Execute(ctx, name, args)
	if err != nil {
		return contractx.ToolResult{}, fmt.Errorf("tool=%s agent=%s: %w", name, agent.Name, err)
	}
	log.Debug().Str("agent", agent.Name).Str("tool", name).Bool("failed", res.Error != "").Msg("tool executed")
	return res, nil
}

func (r *Runner) graphFor(ctx context.Context, agent *contractx.Agent) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.graphs[agent.Name]; ok {
		return g, nil
	}

	chatModel, err := r.models.ModelFor(agent.Type)
	if err != nil {
		return nil, err
	}

	tools := append([]*schema.ToolInfo(nil), agent.Tools...)
	tools = append(tools, handoffTools(agent)...)
	if len(tools) > 0 {
		chatModel, err = chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agent.Name, err)
		}
	}

	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("add edge start->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runnable, err := graph.Compile(ctx, compose.WithGraphName("agent."+ToolName(agent.Name)))
	if err != nil {
		return nil, fmt.Errorf("%w: compile graph for agent=%s: %v", contractx.ErrModelInvoke, agent.Name, err)
	}
	r.graphs[agent.Name] = runnable
	return runnable, nil
}

func toSchemaMessages(in []contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(in))
	for _, m := range in {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
