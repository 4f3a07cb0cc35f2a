package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// FinalAgentFunc returns the summary specialist carrying the live prompt, or
// false when none is registered.
type FinalAgentFunc func() (*contractx.Agent, bool)

type StopDeps struct {
	FinalAgent FinalAgentFunc
	Runner     contractx.AgentRunner
	Dispatcher contractx.Dispatcher
	Renderer   contractx.Renderer
}

type summaryPayload struct {
	Conversation string   `json:"conversation"`
	UserData     string   `json:"user_data"`
	PainPoints   []string `json:"pain_points"`
	GoodPoints   []string `json:"good_points"`
}

// StopSummary summarizes the drained session. The summary specialist is run
// directly when registered; otherwise the transcript goes through the
// dispatcher.
func StopSummary(ctx context.Context, in *GraphState, deps StopDeps) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	in.PainPoints = []string{}
	in.GoodPoints = []string{}
	transcript := in.Session.Transcript()

	var agent *contractx.Agent
	if deps.FinalAgent != nil {
		if a, ok := deps.FinalAgent(); ok {
			agent = a
		}
	}

	if agent != nil && deps.Runner != nil {
		payload := compactJSON(summaryPayload{
			Conversation: transcript,
			UserData:     compactJSON(in.Session.Profile),
			PainPoints:   in.Session.PainPoints,
			GoodPoints:   in.Session.GoodPoints,
		})
		res, err := deps.Runner.Run(ctx, agent, []contractx.Message{{Role: contractx.RoleUser, Content: payload}})
		if err != nil {
			in.Err = fmt.Errorf("final summary: %w", err)
			return in, nil
		}
		in.ResponseType = contractx.ResponseTypeFinalResponse
		in.Output = res.Output
		in.LastAgent = agent.Name
	} else {
		if strings.TrimSpace(transcript) == "" {
			transcript = "La conversación no tiene mensajes."
		}
		res, err := deps.Dispatcher.Route(ctx, transcript)
		if err != nil {
			in.Err = fmt.Errorf("route summary: %w", err)
			return in, nil
		}
		in.ResponseType = contractx.ResponseTypeResponse
		in.Output = contractx.TextOutput(contractx.AgentTypeHTML, res.Output.Text())
		in.LastAgent = deps.Dispatcher.RootName()
	}

	if strings.TrimSpace(in.Output.Text()) == "" {
		in.Err = fmt.Errorf("%w: summary is empty", contractx.ErrSchemaViolation)
		return in, nil
	}

	if deps.Renderer != nil {
		rendered, err := deps.Renderer.RenderHTML(ctx, in.Output)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("user_id", in.UserID).Msg("html render failed, keeping raw summary")
		} else {
			in.HTMLData = rendered.Data
		}
	}

	in.PainPoints = append([]string{}, in.Session.PainPoints...)
	in.GoodPoints = append([]string{}, in.Session.GoodPoints...)
	return in, nil
}
