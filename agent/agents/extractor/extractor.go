// Package extractor turns a user utterance into pain and good point labels.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

var pointsSchema = &contractx.ResponseSchema{
	Name:        "conversation_points",
	Description: "Problemas y puntos positivos mencionados por el usuario",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pain_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"good_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"pain_points", "good_points"},
		"additionalProperties": false,
	},
}

type Extractor struct {
	completer contractx.Completer
	tpl       *promptx.Template
}

var _ contractx.Extractor = (*Extractor)(nil)

func New(completer contractx.Completer, prompt string) (*Extractor, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: extractor prompt", contractx.ErrPromptMissing)
	}
	tpl, err := promptx.NewTemplate("extractor", schema.User, prompt)
	if err != nil {
		return nil, err
	}
	return &Extractor{completer: completer, tpl: tpl}, nil
}

// Extract returns the labels found in text. A reply that is not the expected
// JSON shape yields empty lists; only a failed model call is an error.
func (e *Extractor) Extract(ctx context.Context, text string) (contractx.Points, error) {
	empty := contractx.Points{PainPoints: []string{}, GoodPoints: []string{}}

	msg, err := e.tpl.Render(ctx, map[string]any{"input": text})
	if err != nil {
		return empty, err
	}

	raw, err := e.completer.Complete(ctx, []contractx.Message{msg}, pointsSchema)
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) {
			log.Ctx(ctx).Warn().Err(err).Msg("extractor returned no content")
			return empty, nil
		}
		return empty, err
	}

	points, err := parsePoints(raw)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("reply", truncate(raw, 200)).Msg("extractor reply is not valid points json")
		return empty, nil
	}
	return points, nil
}

func parsePoints(raw string) (contractx.Points, error) {
	var p contractx.Points
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return contractx.Points{PainPoints: []string{}, GoodPoints: []string{}}, err
	}
	return contractx.Points{
		PainPoints: clean(p.PainPoints),
		GoodPoints: clean(p.GoodPoints),
	}, nil
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
