// Package orchestrator is the conversation controller: it validates a phase
// tagged request, serializes it per user and runs the conversation graph.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	nodex "github.com/tanpawarit/guide-life-agents/agent/nodes"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
	statex "github.com/tanpawarit/guide-life-agents/agent/state"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultFinalAgentName = "Final Output Agent"

var tracer = otel.Tracer("github.com/tanpawarit/guide-life-agents/agent/agents/orchestrator")

// Specialists finds a specialist by name fragment.
type Specialists interface {
	FindByNameFragment(fragment string) (*contractx.Agent, bool)
}

type Config struct {
	FinalAgentName string
	GreetingPrompt string
}

type Deps struct {
	Store      *statex.MemoryStore
	Completer  contractx.Completer
	Extractor  contractx.Extractor
	Dispatcher contractx.Dispatcher
	Runner     contractx.AgentRunner

	// Specialists and FinalPrompt resolve the summary specialist at stop time.
	Specialists Specialists
	FinalPrompt func() string

	// Optional.
	Renderer contractx.Renderer
	Cards    nodex.CardRenderer
	Reports  contractx.ReportSink
}

type Orchestrator struct {
	deps        Deps
	finalName   string
	greetingTpl *promptx.Template

	graphRunner compose.Runnable[*nodex.GraphState, contractx.Response]

	now func() time.Time
}

func New(deps Deps, cfg Config) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Completer == nil {
		return nil, errors.New("completer is required")
	}
	if deps.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	greeting := cfg.GreetingPrompt
	if strings.TrimSpace(greeting) == "" {
		greeting = promptx.LoadPromptSet().Greeting
	}
	tpl, err := promptx.NewTemplate("greeting", schema.User, greeting)
	if err != nil {
		return nil, err
	}

	finalName := strings.TrimSpace(cfg.FinalAgentName)
	if finalName == "" {
		finalName = DefaultFinalAgentName
	}

	o := &Orchestrator{
		deps:        deps,
		finalName:   finalName,
		greetingTpl: tpl,
		now:         time.Now,
	}

	graphRunner, err := o.compileHandleGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner
	return o, nil
}

// Handle runs one conversation request. Only validation errors are returned;
// upstream failures come back as a fallback response.
func (o *Orchestrator) Handle(ctx context.Context, req contractx.Request) (contractx.Response, error) {
	st, err := nodex.ValidateRequest(req, o.now)
	if err != nil {
		return contractx.Response{}, err
	}

	unlock := o.deps.Store.Lock(st.UserID)
	defer unlock()

	ctx, span := tracer.Start(ctx, "conversation."+string(st.Phase))
	defer span.End()
	span.SetAttributes(
		attribute.String("conversation.user_id", st.UserID),
		attribute.String("conversation.phase", string(st.Phase)),
	)

	resp, err := o.graphRunner.Invoke(ctx, st)
	if err != nil {
		span.RecordError(err)
		return contractx.Response{}, err
	}
	span.SetAttributes(
		attribute.Bool("conversation.fallback", resp.Fallback),
		attribute.String("conversation.last_agent", resp.LastAgent),
	)
	return resp, nil
}

// finalAgent resolves the summary specialist with the live prompt applied.
func (o *Orchestrator) finalAgent() (*contractx.Agent, bool) {
	if o.deps.Specialists == nil {
		return nil, false
	}
	agent, ok := o.deps.Specialists.FindByNameFragment(o.finalName)
	if !ok {
		return nil, false
	}
	if o.deps.FinalPrompt != nil {
		if p := strings.TrimSpace(o.deps.FinalPrompt()); p != "" {
			agent = agent.WithInstructions(p)
		}
	}
	return agent, true
}
