package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	openrouterx "github.com/tanpawarit/guide-life-agents/pkg/openrouter"
)

const completionTemplate = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "test-model",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": %q}
	}]
}`

type capturedRequest struct {
	mu   sync.Mutex
	body map[string]any
	path string
}

func newCompletionServer(t *testing.T, status int, content string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.mu.Lock()
		captured.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		captured.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, completionTemplate, content)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestCompleter(t *testing.T, baseURL string) *Completer {
	t.Helper()

	maxTokens := 256
	c, err := NewCompleter(openrouterx.Config{
		BaseURL:            baseURL,
		APIKey:             "test-key",
		Model:              "test-model",
		MaxCompletionToken: &maxTokens,
		Temperature:        0.2,
	})
	if err != nil {
		t.Fatalf("NewCompleter() error = %v", err)
	}
	return c
}

func TestCompleterComplete(t *testing.T) {
	t.Parallel()

	server, captured := newCompletionServer(t, http.StatusOK, "  Hola Ana  ")
	c := newTestCompleter(t, server.URL)

	got, err := c.Complete(context.Background(), []contractx.Message{
		{Role: contractx.RoleSystem, Content: "saluda"},
	}, nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Hola Ana" {
		t.Fatalf("Complete() = %q, want %q", got, "Hola Ana")
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if !strings.HasSuffix(captured.path, "/chat/completions") {
		t.Fatalf("path = %q, want chat completions endpoint", captured.path)
	}
	if captured.body["model"] != "test-model" {
		t.Fatalf("model = %v, want test-model", captured.body["model"])
	}
	if _, ok := captured.body["response_format"]; ok {
		t.Fatal("response_format must be omitted without schema")
	}
}

func TestCompleterSendsJSONSchema(t *testing.T) {
	t.Parallel()

	server, captured := newCompletionServer(t, http.StatusOK, `{"pain_points":[],"good_points":[]}`)
	c := newTestCompleter(t, server.URL)

	_, err := c.Complete(context.Background(), []contractx.Message{
		{Role: contractx.RoleUser, Content: "texto"},
	}, &contractx.ResponseSchema{
		Name:        "points",
		Description: "pain and good points",
		Schema: map[string]any{
			"type": "object",
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	rf, ok := captured.body["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("response_format missing: %#v", captured.body)
	}
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format.type = %v, want json_schema", rf["type"])
	}
	js, _ := rf["json_schema"].(map[string]any)
	if js["name"] != "points" || js["strict"] != true {
		t.Fatalf("json_schema = %#v", js)
	}
}

func TestCompleterUpstreamError(t *testing.T) {
	t.Parallel()

	server, _ := newCompletionServer(t, http.StatusInternalServerError, "")
	c := newTestCompleter(t, server.URL)

	_, err := c.Complete(context.Background(), []contractx.Message{{Role: contractx.RoleUser, Content: "hola"}}, nil)
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Complete() error = %v, want ErrModelInvoke", err)
	}
	if !IsModelFailure(err) {
		t.Fatal("IsModelFailure() = false, want true")
	}
}

func TestCompleterEmptyContent(t *testing.T) {
	t.Parallel()

	server, _ := newCompletionServer(t, http.StatusOK, "   ")
	c := newTestCompleter(t, server.URL)

	_, err := c.Complete(context.Background(), []contractx.Message{{Role: contractx.RoleUser, Content: "hola"}}, nil)
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Complete() error = %v, want ErrSchemaViolation", err)
	}
}

func TestNewCompleterRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewCompleter(openrouterx.Config{Model: "m"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewCompleter() error = %v, want ErrValidation", err)
	}
}

func TestOpenRouterForOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:       "k",
		Model:        "default-model",
		Temperature:  0.5,
		Models:       map[string]string{"money": "money-model", PurposeRenderer: "html-model"},
		Temperatures: map[string]float32{"money": 0.1},
	}

	money := cfg.OpenRouterFor(contractx.AgentTypeMoney)
	if money.Model != "money-model" || money.Temperature != 0.1 {
		t.Fatalf("money config = %+v", money)
	}
	health := cfg.OpenRouterFor(contractx.AgentTypeHealth)
	if health.Model != "default-model" || health.Temperature != 0.5 {
		t.Fatalf("health config = %+v", health)
	}
	if got := cfg.OpenRouterForPurpose(PurposeRenderer).Model; got != "html-model" {
		t.Fatalf("renderer model = %q", got)
	}
}
