package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func emigrationAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name:        "Emigration Agent",
		Type:        contractx.AgentTypeEmigration,
		RoutingHint: "Asistencia con temas de emigración: visados, residencia y mudarse a otro país.",
		Instructions: instructions(d.Prompts.Base,
			"Proporciona asistencia con temas relacionados con la emigración. Responde solo en español."),
		Output: baseOutput(),
	}, d.Catalog, tool.WebSearch)
}
