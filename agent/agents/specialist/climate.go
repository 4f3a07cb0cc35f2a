package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func climateAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name: "Climate Agent",
		Type: contractx.AgentTypeClimate,
		RoutingHint: "Información sobre clima y medio ambiente con datos de NASA Earth y búsqueda web. " +
			"Úsalo para cambio climático, patrones del tiempo o riesgos ambientales.",
		Instructions: instructions(d.Prompts.Base,
			"Proporciona asistencia con temas de clima y medio ambiente. Puedes consultar datos climáticos de NASA "+
				"por coordenadas, riesgos ambientales por país y buscar en la web. Responde solo en español."),
	}, d.Catalog, tool.ClimateTemperature, tool.ClimateEnvironmentRisk, tool.WebSearch)
}
