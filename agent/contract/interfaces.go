package contract

import "context"

// Completer generates one completion. When schema is non-nil the reply must be
// a JSON document matching it.
type Completer interface {
	Complete(ctx context.Context, messages []Message, schema *ResponseSchema) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, text string) (Points, error)
}

type Dispatcher interface {
	Route(ctx context.Context, text string) (RunResult, error)
	RootName() string
}

// AgentRunner executes one turn for agent over input. The underlying model may
// hand off to any agent in agent.Handoffs before producing the final output.
type AgentRunner interface {
	Run(ctx context.Context, agent *Agent, input []Message) (RunResult, error)
}

type Renderer interface {
	RenderHTML(ctx context.Context, out AgentOutput) (AgentOutput, error)
}

type ReportSink interface {
	PublishReport(ctx context.Context, report FinalReport) error
}
