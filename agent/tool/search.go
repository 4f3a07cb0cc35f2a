package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	llmx "github.com/tanpawarit/guide-life-agents/agent/llm"
	openrouterx "github.com/tanpawarit/guide-life-agents/pkg/openrouter"
)

var errSearchUnavailable = errors.New("web search is not configured")

const searchSystemPrompt = "Eres un asistente de búsqueda. Responde con información actual, concreta y verificable, citando las fuentes cuando sea posible."

type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type SearchConfig struct {
	APIKey  string        `split_words:"true"`
	BaseURL string        `split_words:"true" default:"https://api.perplexity.ai"`
	Model   string        `split_words:"true" default:"sonar"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

// PerplexitySearch answers queries through Perplexity's OpenAI compatible
// chat endpoint.
type PerplexitySearch struct {
	completer contractx.Completer
}

// NewPerplexitySearch returns a nil Searcher when no API key is configured.
func NewPerplexitySearch(cfg SearchConfig) (Searcher, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil
	}
	c, err := llmx.NewCompleter(openrouterx.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("perplexity search: %w", err)
	}
	return &PerplexitySearch{completer: c}, nil
}

func NewSearchWithCompleter(c contractx.Completer) *PerplexitySearch {
	return &PerplexitySearch{completer: c}
}

func (p *PerplexitySearch) Search(ctx context.Context, query string) (string, error) {
	return p.completer.Complete(ctx, []contractx.Message{
		{Role: contractx.RoleSystem, Content: searchSystemPrompt},
		{Role: contractx.RoleUser, Content: query},
	}, nil)
}

func searchTool(s Searcher) Tool {
	return newTool(WebSearch,
		"Busca información actualizada en internet.",
		map[string]*schema.ParameterInfo{
			"query": stringParam("Consulta de búsqueda"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			query, err := args.String("query")
			if err != nil {
				return nil, err
			}
			return runSearch(ctx, s, query, Result{"query": query})
		},
	)
}

func governmentTool(s Searcher) Tool {
	return newTool(GovernmentInfo,
		"Busca leyes, trámites y servicios públicos para el país y la ciudad del usuario.",
		map[string]*schema.ParameterInfo{
			"country": stringParam("País del usuario"),
			"city":    stringParam("Ciudad del usuario"),
			"query":   stringParam("Pregunta o tema concreto"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			country, err := args.String("country")
			if err != nil {
				return nil, err
			}
			city, err := args.String("city")
			if err != nil {
				return nil, err
			}
			query, err := args.String("query")
			if err != nil {
				return nil, err
			}
			full := fmt.Sprintf("%s en %s, %s (leyes, trámites de gobierno o información relacionada)", query, city, country)
			return runSearch(ctx, s, full, Result{"country": country, "city": city})
		},
	)
}

func runSearch(ctx context.Context, s Searcher, query string, base Result) (Result, error) {
	if s == nil {
		return nil, errSearchUnavailable
	}
	answer, err := s.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	base["data"] = answer
	return base, nil
}
