package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

// finalOutputAgent carries the default summary prompt. The controller swaps in
// the live prompt from settings at stop time.
func finalOutputAgent(d Deps) *contractx.Agent {
	return &contractx.Agent{
		Name:         FinalOutputAgentName,
		Type:         contractx.AgentTypeFinalOutput,
		RoutingHint:  "Genera resúmenes finales e informes basados en el historial de la conversación.",
		Instructions: d.Prompts.FinalOutput,
		Output: baseOutput(
			contractx.OutputField{Name: "html_summary", Type: "string", Desc: "resumen en HTML con clases de Tailwind CSS", Required: true},
			contractx.OutputField{Name: "problems", Type: "array de strings", Desc: "problemas mencionados por el usuario", Required: true},
			contractx.OutputField{Name: "recommendations", Type: "array de strings", Desc: "recomendaciones prácticas", Required: true},
			contractx.OutputField{Name: "user_data", Type: "object", Desc: "datos del usuario relevantes para el resumen"},
		),
	}
}
