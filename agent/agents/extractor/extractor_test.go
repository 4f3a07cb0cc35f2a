package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []contractx.Message
	schema   *contractx.ResponseSchema
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []contractx.Message, schema *contractx.ResponseSchema) (string, error) {
	f.messages = messages
	f.schema = schema
	return f.reply, f.err
}

func newTestExtractor(t *testing.T, c *fakeCompleter) *Extractor {
	t.Helper()
	e, err := New(c, promptx.LoadPromptSet().Extractor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestExtractParsesPoints(t *testing.T) {
	t.Parallel()

	c := &fakeCompleter{reply: `{"pain_points":["problemas financieros"," "],"good_points":["salud y bienestar"]}`}
	points, err := newTestExtractor(t, c).Extract(context.Background(), "No llego a fin de mes")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(points.PainPoints) != 1 || points.PainPoints[0] != "problemas financieros" {
		t.Fatalf("unexpected pain points: %#v", points.PainPoints)
	}
	if len(points.GoodPoints) != 1 || points.GoodPoints[0] != "salud y bienestar" {
		t.Fatalf("unexpected good points: %#v", points.GoodPoints)
	}

	if len(c.messages) != 1 || c.messages[0].Role != contractx.RoleUser {
		t.Fatalf("unexpected messages: %+v", c.messages)
	}
	if !strings.HasPrefix(c.messages[0].Content, "No llego a fin de mes") {
		t.Fatalf("input not rendered into prompt: %q", c.messages[0].Content)
	}
	if c.schema == nil || c.schema.Schema["additionalProperties"] != false {
		t.Fatalf("expected strict points schema, got %+v", c.schema)
	}
}

func TestExtractMalformedReplyYieldsEmpty(t *testing.T) {
	t.Parallel()

	for _, reply := range []string{"no es json", `{"pain_points":"x"}`, `[]`} {
		points, err := newTestExtractor(t, &fakeCompleter{reply: reply}).Extract(context.Background(), "hola")
		if err != nil {
			t.Fatalf("reply %q: Extract() error = %v", reply, err)
		}
		if points.PainPoints == nil || points.GoodPoints == nil || len(points.PainPoints)+len(points.GoodPoints) != 0 {
			t.Fatalf("reply %q: expected empty non-nil lists, got %+v", reply, points)
		}
	}
}

func TestExtractMissingFieldsYieldEmptyLists(t *testing.T) {
	t.Parallel()

	points, err := newTestExtractor(t, &fakeCompleter{reply: `{"good_points":["ok"]}`}).Extract(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if points.PainPoints == nil || len(points.PainPoints) != 0 || len(points.GoodPoints) != 1 {
		t.Fatalf("unexpected points: %+v", points)
	}
}

func TestExtractEmptyContentIsSoft(t *testing.T) {
	t.Parallel()

	c := &fakeCompleter{err: contractx.ErrSchemaViolation}
	if _, err := newTestExtractor(t, c).Extract(context.Background(), "hola"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestExtractInvokeFailure(t *testing.T) {
	t.Parallel()

	c := &fakeCompleter{err: contractx.ErrModelInvoke}
	points, err := newTestExtractor(t, c).Extract(context.Background(), "hola")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
	if points.PainPoints == nil || points.GoodPoints == nil {
		t.Fatalf("failure must still return empty lists")
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "x"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := New(&fakeCompleter{}, " "); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
