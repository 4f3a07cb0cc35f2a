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

type ClimateConfig struct {
	APIKey  string `split_words:"true" default:"DEMO_KEY"`
	BaseURL string `split_words:"true" default:"https://api.nasa.gov"`
}

var environmentalRisks = map[string]string{
	"mexico":    "México enfrenta riesgos de sequías, huracanes y aumento del nivel del mar.",
	"méxico":    "México enfrenta riesgos de sequías, huracanes y aumento del nivel del mar.",
	"brazil":    "Brasil enfrenta riesgos de deforestación, inundaciones y sequías.",
	"brasil":    "Brasil enfrenta riesgos de deforestación, inundaciones y sequías.",
	"colombia":  "Colombia enfrenta riesgos de deslizamientos de tierra, inundaciones y sequías.",
	"argentina": "Argentina enfrenta riesgos de sequías e inundaciones.",
	"chile":     "Chile enfrenta riesgos de sequías prolongadas, incendios forestales y terremotos.",
	"peru":      "Perú enfrenta riesgos de retroceso glaciar, fenómeno de El Niño e inundaciones.",
	"perú":      "Perú enfrenta riesgos de retroceso glaciar, fenómeno de El Niño e inundaciones.",
	"spain":     "España enfrenta riesgos de olas de calor, sequías y desertificación.",
	"españa":    "España enfrenta riesgos de olas de calor, sequías y desertificación.",
}

func climateTools(client *http.Client, cfg ClimateConfig) []Tool {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://api.nasa.gov"
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}

	temperature := newTool(ClimateTemperature,
		"Obtiene datos de temperatura de NASA Earth Data para una latitud y longitud.",
		map[string]*schema.ParameterInfo{
			"lat": numberParam("Latitud"),
			"lon": numberParam("Longitud"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			lat, err := args.Float("lat")
			if err != nil {
				return nil, err
			}
			lon, err := args.Float("lon")
			if err != nil {
				return nil, err
			}
			if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
				return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidArgs)
			}

			q := url.Values{}
			q.Set("lat", fmt.Sprint(lat))
			q.Set("lon", fmt.Sprint(lon))
			q.Set("api_key", apiKey)

			var data any
			if err := getJSON(ctx, client, base+"/earth/temperature?"+q.Encode(), nil, &data); err != nil {
				return nil, fmt.Errorf("error al acceder a los datos: %w", err)
			}
			return Result{"latitude": lat, "longitude": lon, "data": data}, nil
		},
	)

	risk := newTool(ClimateEnvironmentRisk,
		"Describe los riesgos ambientales conocidos de un país.",
		map[string]*schema.ParameterInfo{
			"country": stringParam("Nombre del país"),
		},
		func(_ context.Context, args Args) (Result, error) {
			country, err := args.String("country")
			if err != nil {
				return nil, err
			}
			text, ok := environmentalRisks[strings.ToLower(country)]
			if !ok {
				return Result{
					"status":  contractx.StatusError,
					"message": fmt.Sprintf("No hay información específica sobre riesgos ambientales para %s.", country),
				}, nil
			}
			return Result{"country": country, "risk": text}, nil
		},
	)

	return []Tool{temperature, risk}
}
