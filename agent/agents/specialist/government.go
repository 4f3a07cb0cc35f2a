package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func governmentAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name: "Government Agent",
		Type: contractx.AgentTypeGovernment,
		RoutingHint: "Leyes, trámites de gobierno y regulaciones, con búsqueda específica para el país y la ciudad del usuario. " +
			"Úsalo para procesos legales o servicios públicos.",
		Instructions: "Proporciona asistencia con preguntas sobre leyes, procesos de gobierno y otros temas gubernamentales. " +
			"Puedes buscar en la web información específica del país y la ciudad del usuario. Responde solo en español.",
	}, d.Catalog, tool.GovernmentInfo)
}
