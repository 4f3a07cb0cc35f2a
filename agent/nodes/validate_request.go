package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// ValidateRequest checks the request shape before any session is touched.
func ValidateRequest(in contractx.Request, nowFn func() time.Time) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", contractx.ErrValidation)
	}

	st := &GraphState{
		Phase:  in.Type,
		UserID: userID,
		Now:    nowFn().UTC(),
	}

	switch in.Type {
	case contractx.PhaseStart:
		if in.UserData == nil {
			return nil, fmt.Errorf("%w: user_data is required for type start", contractx.ErrValidation)
		}
		st.Profile = in.UserData
	case contractx.PhasePrompt:
		text := strings.TrimSpace(in.Data)
		if text == "" {
			return nil, fmt.Errorf("%w: data is required for type prompt", contractx.ErrValidation)
		}
		st.Text = text
	case contractx.PhaseStop:
	default:
		return nil, fmt.Errorf("%w: invalid type %q", contractx.ErrValidation, in.Type)
	}
	return st, nil
}
