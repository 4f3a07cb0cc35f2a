package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func healthAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name:        "Health Agent",
		Type:        contractx.AgentTypeHealth,
		RoutingHint: "Asistencia sobre salud con búsqueda web. Úsalo solo si el usuario menciona algo relacionado con la salud.",
		Instructions: instructions(d.Prompts.Base,
			"Proporciona asistencia con temas relacionados con la salud. Responde solo en español."),
		Output: baseOutput(),
	}, d.Catalog, tool.WebSearch)
}
