package orchestratornode

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// CommitTurn records the exchange for start and prompt, and publishes the
// final report after a successful stop. A report failure is only logged.
func CommitTurn(ctx context.Context, in *GraphState, sink contractx.ReportSink) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	switch in.Phase {
	case contractx.PhaseStart, contractx.PhasePrompt:
		in.Session.AppendExchange(in.UserTurn, in.Output.Text(), in.Now)
	case contractx.PhaseStop:
		if in.Fallback || sink == nil {
			return in, nil
		}
		report := contractx.FinalReport{
			ReportID:   uuid.NewString(),
			UserID:     in.UserID,
			LastAgent:  in.LastAgent,
			Summary:    in.Output,
			PainPoints: in.PainPoints,
			GoodPoints: in.GoodPoints,
			CreatedAt:  in.Now,
		}
		if err := sink.PublishReport(ctx, report); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("user_id", in.UserID).Str("report_id", report.ReportID).Msg("publish final report failed")
		}
	}
	return in, nil
}
