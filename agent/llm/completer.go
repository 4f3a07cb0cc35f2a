package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	openrouterx "github.com/tanpawarit/guide-life-agents/pkg/openrouter"
)

// Completer issues single chat completions through the OpenAI SDK. It backs
// the greeting, the point extractor and the HTML renderer.
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ contractx.Completer = (*Completer)(nil)

func NewCompleter(cfg openrouterx.Config) (*Completer, error) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("%w: completer api key is required", contractx.ErrValidation)
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, fmt.Errorf("%w: completer model is required", contractx.ErrValidation)
	}

	c := &Completer{
		client:      client,
		model:       modelName,
		temperature: cfg.Temperature,
	}
	if cfg.MaxCompletionToken != nil {
		c.maxTokens = *cfg.MaxCompletionToken
	}
	return c, nil
}

func (c *Completer) Complete(ctx context.Context, messages []contractx.Message, schema *contractx.ResponseSchema) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages to complete", contractx.ErrValidation)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    toSDKMessages(messages),
		Temperature: openai.Float(float64(c.temperature)),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.maxTokens))
	}
	if schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        schema.Name,
					Description: openai.String(schema.Description),
					Schema:      schema.Schema,
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion model=%s: %v", contractx.ErrModelInvoke, c.model, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrModelInvoke)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: chat completion content is empty", contractx.ErrSchemaViolation)
	}
	return content, nil
}

func toSDKMessages(messages []contractx.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// IsModelFailure reports whether err came from the model endpoint rather than
// from caller validation.
func IsModelFailure(err error) bool {
	return errors.Is(err, contractx.ErrModelInvoke) || errors.Is(err, contractx.ErrSchemaViolation)
}
