package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

var (
	//go:embed template/base.txt
	baseRaw string

	//go:embed template/supervisor.txt
	supervisorRaw string

	//go:embed template/final_output.txt
	finalOutputRaw string

	//go:embed template/extractor.txt
	extractorRaw string

	//go:embed template/greeting.txt
	greetingRaw string

	//go:embed template/html.txt
	htmlRaw string

	//go:embed template/roster.txt
	rosterRaw string
)

// PromptSet holds the embedded prompt texts.
type PromptSet struct {
	Base        string
	Supervisor  string
	FinalOutput string
	Extractor   string
	Greeting    string
	HTML        string
	Roster      string
}

func LoadPromptSet() PromptSet {
	return PromptSet{
		Base:        strings.TrimSpace(baseRaw),
		Supervisor:  strings.TrimSpace(supervisorRaw),
		FinalOutput: strings.TrimSpace(finalOutputRaw),
		Extractor:   strings.TrimSpace(extractorRaw),
		Greeting:    strings.TrimSpace(greetingRaw),
		HTML:        strings.TrimSpace(htmlRaw),
		Roster:      strings.TrimSpace(rosterRaw),
	}
}

// Template is a single-message FString chat template.
type Template struct {
	name string
	role schema.RoleType
	tpl  einoprompt.ChatTemplate
}

func NewTemplate(name string, role schema.RoleType, text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: template %s is empty", contractx.ErrPromptMissing, name)
	}
	var msg *schema.Message
	switch role {
	case schema.System:
		msg = schema.SystemMessage(text)
	default:
		msg = schema.UserMessage(text)
	}
	return &Template{
		name: name,
		role: role,
		tpl:  einoprompt.FromMessages(schema.FString, msg),
	}, nil
}

func MustTemplate(name string, role schema.RoleType, text string) *Template {
	t, err := NewTemplate(name, role, text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render formats the template and returns it as a contract message.
func (t *Template) Render(ctx context.Context, vars map[string]any) (contractx.Message, error) {
	msgs, err := t.tpl.Format(ctx, vars)
	if err != nil {
		return contractx.Message{}, fmt.Errorf("%w: format template %s: %v", contractx.ErrValidation, t.name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return contractx.Message{}, fmt.Errorf("%w: template %s rendered nothing", contractx.ErrPromptMissing, t.name)
	}

	role := contractx.RoleUser
	if t.role == schema.System {
		role = contractx.RoleSystem
	}
	return contractx.Message{Role: role, Content: msgs[0].Content}, nil
}
