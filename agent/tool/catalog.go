package tool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// Deps are the external services the tools call. A nil Search makes the
// search-backed tools report themselves unavailable.
type Deps struct {
	Search     Searcher
	HTTPClient *http.Client
	Climate    ClimateConfig
	Money      MoneyConfig
	Energy     EnergyConfig
	Payment    PaymentConfig
}

// Catalog owns every tool and hands out per-agent subsets.
type Catalog struct {
	tools map[string]Tool
	order []string
}

func NewCatalog(deps Deps) *Catalog {
	client := deps.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	c := &Catalog{tools: make(map[string]Tool)}
	c.add(searchTool(deps.Search))
	c.add(mathTool())
	c.add(climateTools(client, deps.Climate)...)
	c.add(moneyTools(client, deps.Money)...)
	c.add(governmentTool(deps.Search))
	c.add(paymentTools(client, deps.Payment)...)
	c.add(energyTools(client, deps.Energy)...)
	return c
}

func (c *Catalog) add(tools ...Tool) {
	for _, t := range tools {
		if _, dup := c.tools[t.Info.Name]; !dup {
			c.order = append(c.order, t.Info.Name)
		}
		c.tools[t.Info.Name] = t
	}
}

// Names lists every tool in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// ForAgent returns the tool infos for names plus an executor that only runs
// those tools and stamps results with agentType. Unknown names are skipped.
func (c *Catalog) ForAgent(agentType contractx.AgentType, names ...string) ([]*schema.ToolInfo, contractx.ToolExecutor) {
	allowed := make(map[string]Tool, len(names))
	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		t, ok := c.tools[name]
		if !ok {
			log.Warn().Str("tool", name).Str("agent_type", string(agentType)).Msg("unknown tool skipped")
			continue
		}
		if _, dup := allowed[name]; dup {
			continue
		}
		allowed[name] = t
		infos = append(infos, t.Info)
	}
	return infos, newExecutor(agentType, allowed)
}

func newExecutor(agentType contractx.AgentType, allowed map[string]Tool) contractx.ToolExecutor {
	return func(ctx context.Context, name string, args map[string]any) (contractx.ToolResult, error) {
		t, ok := allowed[name]
		if !ok {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", name, agentType),
			}, nil
		}

		res, err := t.Run(ctx, Args(args))
		if err != nil {
			if errors.Is(err, ErrInvalidArgs) {
				return contractx.ToolResult{Tool: name, Error: err.Error()}, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return contractx.ToolResult{}, ctxErr
			}
			log.Warn().Err(err).Str("tool", name).Str("agent_type", string(agentType)).Msg("tool call failed")
			res = Result{"status": contractx.StatusError, "message": err.Error()}
		}
		if res == nil {
			res = Result{}
		}
		if _, ok := res["agent_type"]; !ok {
			res["agent_type"] = string(agentType)
		}
		if _, ok := res["status"]; !ok {
			res["status"] = contractx.StatusSuccess
		}
		return contractx.ToolResult{Tool: name, Result: map[string]any(res)}, nil
	}
}
