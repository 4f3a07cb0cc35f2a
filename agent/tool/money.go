package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

type MoneyConfig struct {
	WorldBankURL string `split_words:"true" default:"https://api.worldbank.org/v2"`
	ECLACURL     string `envconfig:"ECLAC_URL" default:"https://api-cepalstat.cepal.org/cepalstat/api/v1"`
}

func moneyTools(client *http.Client, cfg MoneyConfig) []Tool {
	worldBank := strings.TrimRight(strings.TrimSpace(cfg.WorldBankURL), "/")
	if worldBank == "" {
		worldBank = "https://api.worldbank.org/v2"
	}
	eclac := strings.TrimRight(strings.TrimSpace(cfg.ECLACURL), "/")
	if eclac == "" {
		eclac = "https://api-cepalstat.cepal.org/cepalstat/api/v1"
	}

	advice := newTool(MoneyFinancialAdvice,
		"Da una recomendación financiera general sobre un tema.",
		map[string]*schema.ParameterInfo{
			"topic": stringParam("Tema financiero"),
		},
		func(_ context.Context, args Args) (Result, error) {
			topic, err := args.String("topic")
			if err != nil {
				return nil, err
			}
			return Result{
				"topic":  topic,
				"advice": fmt.Sprintf("Para el tema '%s', se recomienda mantener un presupuesto equilibrado y consultar con un asesor financiero.", topic),
			}, nil
		},
	)

	indicator := newTool(MoneyWorldBankIndicator,
		"Consulta el valor más reciente de un indicador del Banco Mundial para un país.",
		map[string]*schema.ParameterInfo{
			"country_code": stringParam("Código ISO 3166-1 alfa-3 del país, por ejemplo MEX"),
			"indicator":    stringParam("Código del indicador, por ejemplo NY.GDP.PCAP.CD"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			country, err := args.String("country_code")
			if err != nil {
				return nil, err
			}
			code, err := args.String("indicator")
			if err != nil {
				return nil, err
			}

			endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&mrnev=1",
				worldBank, url.PathEscape(country), url.PathEscape(code))
			var raw []any
			if err := getJSON(ctx, client, endpoint, nil, &raw); err != nil {
				return nil, fmt.Errorf("error al acceder a los datos: %w", err)
			}
			value, date, ok := latestWorldBankValue(raw)
			if !ok {
				return Result{"status": contractx.StatusError, "message": "No se encontraron datos para el indicador solicitado."}, nil
			}
			return Result{"country_code": country, "indicator": code, "value": value, "date": date}, nil
		},
	)

	eclacTool := newTool(MoneyECLACIndicator,
		"Consulta datos socioeconómicos de la CEPAL para un país de América Latina y el Caribe.",
		map[string]*schema.ParameterInfo{
			"country_code": stringParam("Código del país"),
			"topic":        stringParam("Tema, por ejemplo pobreza, educación o empleo"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			country, err := args.String("country_code")
			if err != nil {
				return nil, err
			}
			topic, err := args.String("topic")
			if err != nil {
				return nil, err
			}

			q := url.Values{}
			q.Set("country", country)
			q.Set("topic", topic)
			q.Set("format", "json")
			var data any
			if err := getJSON(ctx, client, eclac+"/indicator?"+q.Encode(), nil, &data); err != nil {
				return nil, fmt.Errorf("error al acceder a los datos de CEPAL: %w", err)
			}
			return Result{"country_code": country, "topic": topic, "data": data}, nil
		},
	)

	return []Tool{advice, indicator, eclacTool}
}

// latestWorldBankValue reads the [meta, [entries...]] payload of the World
// Bank API and returns the first non-null value.
func latestWorldBankValue(raw []any) (any, string, bool) {
	if len(raw) < 2 {
		return nil, "", false
	}
	entries, ok := raw[1].([]any)
	if !ok {
		return nil, "", false
	}
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok || m["value"] == nil {
			continue
		}
		date, _ := m["date"].(string)
		return m["value"], date, true
	}
	return nil, "", false
}
