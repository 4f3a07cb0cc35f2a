package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// PromptTurn extracts points from the turn and routes it through the
// dispatcher. Points merged before a later failure are kept.
func PromptTurn(ctx context.Context, in *GraphState, extractor contractx.Extractor, dispatcher contractx.Dispatcher) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	in.ResponseType = contractx.ResponseTypeResponse
	in.UserTurn = ProfilePrefix(in.Profile) + in.Text
	defer func() {
		in.PainPoints = append([]string{}, in.Session.PainPoints...)
		in.GoodPoints = append([]string{}, in.Session.GoodPoints...)
	}()

	points, err := extractor.Extract(ctx, in.UserTurn)
	if err != nil {
		in.Err = fmt.Errorf("extract points: %w", err)
		return in, nil
	}
	in.Session.MergePoints(points, in.Now)

	res, err := dispatcher.Route(ctx, in.UserTurn)
	if err != nil {
		in.Err = fmt.Errorf("route turn: %w", err)
		return in, nil
	}
	if strings.TrimSpace(res.Output.Text()) == "" {
		in.Err = fmt.Errorf("%w: agent=%s returned no text", contractx.ErrSchemaViolation, res.LastAgent)
		return in, nil
	}

	in.Output = res.Output
	in.LastAgent = res.LastAgent
	if in.LastAgent == "" {
		in.LastAgent = dispatcher.RootName()
	}
	return in, nil
}
