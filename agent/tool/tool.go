package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Tool names exposed to the models.
const (
	WebSearch               = "web.search"
	MathEvaluate            = "math.evaluate"
	ClimateTemperature      = "climate.temperature"
	ClimateEnvironmentRisk  = "climate.environmental_risk"
	MoneyFinancialAdvice    = "money.financial_advice"
	MoneyWorldBankIndicator = "money.world_bank_indicator"
	MoneyECLACIndicator     = "money.eclac_indicator"
	GovernmentInfo          = "government.info"
	PaymentInitiate         = "payment.initiate"
	PaymentStatus           = "payment.status"
	EnergyRenewableData     = "energy.renewable_data"
	EnergySustainabilityTip = "energy.sustainability_tips"
)

// ErrInvalidArgs marks a call the model made with bad arguments.
var ErrInvalidArgs = errors.New("invalid tool arguments")

// Result is the domain payload of a tool call. agent_type and status are
// filled in by the executor when missing.
type Result map[string]any

type Func func(ctx context.Context, args Args) (Result, error)

type Tool struct {
	Info *schema.ToolInfo
	Run  Func
}

func newTool(name, desc string, params map[string]*schema.ParameterInfo, run Func) Tool {
	if params == nil {
		params = map[string]*schema.ParameterInfo{}
	}
	return Tool{
		Info: &schema.ToolInfo{
			Name:        name,
			Desc:        desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		},
		Run: run,
	}
}

func stringParam(desc string) *schema.ParameterInfo {
	return &schema.ParameterInfo{Type: schema.String, Desc: desc, Required: true}
}

func numberParam(desc string) *schema.ParameterInfo {
	return &schema.ParameterInfo{Type: schema.Number, Desc: desc, Required: true}
}

// Args wraps the decoded JSON arguments of a tool call.
type Args map[string]any

func (a Args) String(key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgs, key)
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidArgs, key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidArgs, key)
	}
	return s, nil
}

func (a Args) Float(key string) (float64, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidArgs, key)
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidArgs, key)
		}
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgs, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgs, key)
	}
}
