package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	FallbackGreeting = "Hola, ¿en qué puedo ayudarte hoy?"
	FallbackPrompt   = "Entiendo. ¿Hay algo más en lo que pueda ayudarte?"
	FallbackClosing  = "Gracias por tu consulta. Si necesitas más ayuda, no dudes en contactarnos nuevamente."
)

func FallbackText(phase contractx.Phase) string {
	switch phase {
	case contractx.PhaseStart:
		return FallbackGreeting
	case contractx.PhaseStop:
		return FallbackClosing
	default:
		return FallbackPrompt
	}
}

// ApplyFallback replaces the failed turn with the canned reply for its phase.
// The error is logged and recorded on the span, never returned.
func ApplyFallback(ctx context.Context, in *GraphState, rootName string) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	log.Ctx(ctx).Warn().
		Err(in.Err).
		Str("user_id", in.UserID).
		Str("phase", string(in.Phase)).
		Msg("upstream failure, answering with fallback")

	span := trace.SpanFromContext(ctx)
	if in.Err != nil {
		span.RecordError(in.Err)
	}
	span.SetStatus(codes.Error, "fallback")

	in.Fallback = true
	in.ResponseType = contractx.ResponseTypeResponse
	in.Output = contractx.TextOutput(contractx.AgentTypeHTML, FallbackText(in.Phase))
	in.HTMLData = ""

	switch in.Phase {
	case contractx.PhasePrompt:
		in.LastAgent = rootName
	case contractx.PhaseStop:
		in.LastAgent = ""
		in.PainPoints = []string{}
		in.GoodPoints = []string{}
	default:
		in.LastAgent = ""
	}
	return in, nil
}
