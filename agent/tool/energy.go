package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloudwego/eino/schema"
)

type EnergyConfig struct {
	IRENAURL string `envconfig:"IRENA_URL" default:"https://api.irena.org/api/v1"`
}

var sustainabilityTips = []string{
	"Instalar paneles solares para reducir la dependencia de la red eléctrica.",
	"Utilizar electrodomésticos de bajo consumo energético.",
	"Implementar sistemas de iluminación LED.",
	"Aislar adecuadamente la vivienda para reducir el uso de calefacción y aire acondicionado.",
	"Considerar alternativas de transporte sostenible como vehículos eléctricos o transporte público.",
}

func energyTools(client *http.Client, cfg EnergyConfig) []Tool {
	base := strings.TrimRight(strings.TrimSpace(cfg.IRENAURL), "/")
	if base == "" {
		base = "https://api.irena.org/api/v1"
	}

	renewable := newTool(EnergyRenewableData,
		"Obtiene datos de energía renovable de IRENA para un país.",
		map[string]*schema.ParameterInfo{
			"country": stringParam("Nombre del país"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			country, err := args.String("country")
			if err != nil {
				return nil, err
			}
			q := url.Values{}
			q.Set("country", country)
			q.Set("technology", "all")
			q.Set("format", "json")

			var data any
			if err := getJSON(ctx, client, base+"/data?"+q.Encode(), nil, &data); err != nil {
				return nil, fmt.Errorf("error al acceder a los datos: %w", err)
			}
			return Result{"country": country, "data": data}, nil
		},
	)

	tips := newTool(EnergySustainabilityTip,
		"Devuelve consejos prácticos de ahorro energético y sostenibilidad.",
		nil,
		func(context.Context, Args) (Result, error) {
			return Result{"tips": append([]string(nil), sustainabilityTips...)}, nil
		},
	)

	return []Tool{renewable, tips}
}
