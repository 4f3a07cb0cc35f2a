package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func moneyAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name:        "Money Agent",
		Type:        contractx.AgentTypeMoney,
		RoutingHint: "Asistencia financiera y bancaria: ahorro, deudas, inversión e indicadores económicos del país.",
		Instructions: instructions(d.Prompts.Base,
			"Proporciona asistencia con temas financieros y bancarios. Puedes acceder a datos del Banco Mundial y la CEPAL, "+
				"hacer cálculos y buscar información financiera en la web. Responde solo en español."),
		Output: baseOutput(),
	}, d.Catalog,
		tool.MoneyFinancialAdvice,
		tool.MoneyWorldBankIndicator,
		tool.MoneyECLACIndicator,
		tool.MathEvaluate,
		tool.WebSearch,
	)
}
