package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrTurnPairing = errors.New("history is not paired user/assistant turns")

// Session is the per-user conversation state between start and stop.
type Session struct {
	UserID     string              `json:"user_id"`
	Profile    map[string]any      `json:"user_data"`
	History    []contractx.Message `json:"history"`
	PainPoints []string            `json:"pain_points"`
	GoodPoints []string            `json:"good_points"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func NewSession(userID string, profile map[string]any, now time.Time) *Session {
	if profile == nil {
		profile = map[string]any{}
	}
	return &Session{
		UserID:     userID,
		Profile:    profile,
		History:    []contractx.Message{},
		PainPoints: []string{},
		GoodPoints: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now
}

// AppendExchange records one user turn and the assistant turn answering it.
func (s *Session) AppendExchange(user, assistant string, now time.Time) {
	s.History = append(s.History,
		contractx.Message{Role: contractx.RoleUser, Content: user},
		contractx.Message{Role: contractx.RoleAssistant, Content: assistant},
	)
	s.Touch(now)
}

// MergePoints normalizes the extracted points and adds the ones not seen yet.
func (s *Session) MergePoints(p contractx.Points, now time.Time) {
	s.PainPoints = MergeUnique(s.PainPoints, p.PainPoints)
	s.GoodPoints = MergeUnique(s.GoodPoints, p.GoodPoints)
	s.Touch(now)
}

// Transcript renders the history as "Role: content" blocks separated by a
// blank line.
func (s *Session) Transcript() string {
	var b strings.Builder
	for _, m := range s.History {
		role := string(m.Role)
		if role == "" {
			role = string(contractx.RoleSystem)
		}
		fmt.Fprintf(&b, "%s: %s\n\n", Capitalize(role), m.Content)
	}
	return b.String()
}

func (s *Session) Validate() error {
	if len(s.History)%2 != 0 {
		return fmt.Errorf("%w: odd history length %d", ErrTurnPairing, len(s.History))
	}
	for i, m := range s.History {
		want := contractx.RoleUser
		if i%2 == 1 {
			want = contractx.RoleAssistant
		}
		if m.Role != want {
			return fmt.Errorf("%w: turn %d has role %s, want %s", ErrTurnPairing, i, m.Role, want)
		}
	}
	return nil
}

// Clone returns a deep enough copy for callers outside the session lock.
func (s *Session) Clone() Session {
	cp := *s
	cp.History = append([]contractx.Message(nil), s.History...)
	cp.PainPoints = append([]string{}, s.PainPoints...)
	cp.GoodPoints = append([]string{}, s.GoodPoints...)
	cp.Profile = make(map[string]any, len(s.Profile))
	for k, v := range s.Profile {
		cp.Profile[k] = v
	}
	return cp
}

// MergeUnique appends the normalized form of each entry in add that is not
// already present, keeping first-seen order. Blank entries are dropped.
func MergeUnique(dst []string, add []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(add))
	out := make([]string, 0, len(dst)+len(add))
	for _, p := range dst {
		n := Capitalize(p)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, p := range add {
		n := Capitalize(p)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Capitalize trims s, upper-cases its first letter and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	first := cases.Upper(language.Spanish).String(string(r))
	rest := cases.Lower(language.Spanish).String(s[size:])
	return first + rest
}
