package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	statex "github.com/tanpawarit/guide-life-agents/agent/state"
)

// LoadSession binds the session for the phase: start resets it, prompt
// creates it lazily and stop drains it. The caller holds the user lock.
func LoadSession(in *GraphState, store *statex.MemoryStore) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	switch in.Phase {
	case contractx.PhaseStart:
		in.Session = store.Reset(in.UserID, in.Profile)
	case contractx.PhasePrompt:
		in.Session = store.GetOrCreate(in.UserID)
	case contractx.PhaseStop:
		drained := store.Drain(in.UserID)
		in.Session = &drained
	default:
		return nil, fmt.Errorf("%w: invalid type %q", contractx.ErrValidation, in.Phase)
	}
	in.Profile = in.Session.Profile
	return in, nil
}
