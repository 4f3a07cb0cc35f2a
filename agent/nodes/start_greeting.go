package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

// StartGreeting asks the completer for an opening message. No specialist is
// involved.
func StartGreeting(ctx context.Context, in *GraphState, completer contractx.Completer, tpl *promptx.Template) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session is not loaded", contractx.ErrValidation)
	}

	in.ResponseType = contractx.ResponseTypeResponse
	in.PainPoints = []string{}
	in.GoodPoints = []string{}
	in.UserTurn = ProfilePrefix(in.Profile)

	msg, err := tpl.Render(ctx, map[string]any{"profile": in.UserTurn})
	if err != nil {
		in.Err = err
		return in, nil
	}
	in.UserTurn = msg.Content

	reply, err := completer.Complete(ctx, []contractx.Message{msg}, nil)
	if err != nil {
		in.Err = err
		return in, nil
	}
	in.Output = contractx.TextOutput(contractx.AgentTypeHTML, reply)
	return in, nil
}
