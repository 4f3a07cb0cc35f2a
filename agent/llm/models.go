package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// ModelProvider hands out the chat model bound to an agent type.
type ModelProvider interface {
	ModelFor(agentType contractx.AgentType) (model.ToolCallingChatModel, error)
}

// Models lazily builds one eino chat model per distinct endpoint config and
// shares it between agent types that resolve to the same model.
type Models struct {
	cfg Config

	mu     sync.Mutex
	byName map[string]model.ToolCallingChatModel
}

var _ ModelProvider = (*Models)(nil)

func NewModels(cfg Config) (*Models, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Models{
		cfg:    cfg,
		byName: make(map[string]model.ToolCallingChatModel),
	}, nil
}

func (m *Models) ModelFor(agentType contractx.AgentType) (model.ToolCallingChatModel, error) {
	orCfg := m.cfg.OpenRouterFor(agentType)
	key := fmt.Sprintf("%s|%g", orCfg.Model, orCfg.Temperature)

	m.mu.Lock()
	defer m.mu.Unlock()

	if cm, ok := m.byName[key]; ok {
		return cm, nil
	}
	cm, err := orCfg.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}
	m.byName[key] = cm
	return cm, nil
}
