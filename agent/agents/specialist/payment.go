package specialist

import (
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
)

func paymentAgent(d Deps) *contractx.Agent {
	return withTools(&contractx.Agent{
		Name:        "Payment Agent",
		Type:        contractx.AgentTypePayment,
		RoutingHint: "Procesa pagos con PayRetailers y consulta el estado de una transacción.",
		Instructions: instructions(d.Prompts.Base,
			"Ayuda a los usuarios a realizar pagos utilizando PayRetailers. Responde solo en español."),
		Output: baseOutput(
			contractx.OutputField{Name: "transaction_id", Type: "string", Desc: "identificador de la transacción, si existe"},
			contractx.OutputField{Name: "message", Type: "string", Desc: "detalle del pago para el usuario"},
		),
	}, d.Catalog, tool.PaymentInitiate, tool.PaymentStatus, tool.MathEvaluate)
}
