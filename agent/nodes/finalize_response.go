package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

func FinalizeResponse(in *GraphState, cards CardRenderer) (contractx.Response, error) {
	if in == nil {
		return contractx.Response{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	resp := contractx.Response{
		Type:       in.ResponseType,
		UserID:     in.UserID,
		Data:       in.Output,
		PainPoints: in.PainPoints,
		GoodPoints: in.GoodPoints,
		LastAgent:  in.LastAgent,
		HTMLData:   in.HTMLData,
		Fallback:   in.Fallback,
	}
	if resp.Type == "" {
		resp.Type = contractx.ResponseTypeResponse
	}
	if resp.PainPoints == nil {
		resp.PainPoints = []string{}
	}
	if resp.GoodPoints == nil {
		resp.GoodPoints = []string{}
	}
	if resp.HTMLData == "" && cards != nil {
		resp.HTMLData = cards.Cards(resp.Data)
	}
	return resp, nil
}
