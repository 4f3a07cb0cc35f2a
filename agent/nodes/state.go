// Package orchestratornode holds the steps of the conversation graph. Each
// step takes the shared GraphState and returns it.
package orchestratornode

import (
	"time"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	statex "github.com/tanpawarit/guide-life-agents/agent/state"
)

type GraphState struct {
	Phase   contractx.Phase
	UserID  string
	Profile map[string]any
	Text    string
	Now     time.Time

	Session *statex.Session

	// UserTurn is the user side of the exchange appended to history.
	UserTurn     string
	Output       contractx.AgentOutput
	ResponseType contractx.ResponseType
	LastAgent    string
	HTMLData     string
	PainPoints   []string
	GoodPoints   []string

	// Err is the upstream failure that sends the turn to the fallback step.
	Err      error
	Fallback bool
}

// CardRenderer turns an agent output into display HTML without calling a
// model.
type CardRenderer interface {
	Cards(out contractx.AgentOutput) string
}
