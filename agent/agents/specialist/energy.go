package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func energyAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name:        "Energy Agent",
		Type:        contractx.AgentTypeEnergy,
		RoutingHint: "Asistencia sobre energía y sostenibilidad: renovables por país y consejos de ahorro energético.",
		Instructions: instructions(d.Prompts.Base,
			"Proporciona asistencia con temas de energía y sostenibilidad. Responde solo en español."),
		Output: baseOutput(
			contractx.OutputField{Name: "country", Type: "string", Desc: "país consultado, si aplica"},
			contractx.OutputField{Name: "tips", Type: "array de strings", Desc: "consejos de sostenibilidad"},
		),
	}, d.Catalog, tool.EnergyRenewableData, tool.EnergySustainabilityTip, tool.WebSearch)
}
