package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const cardTemplates = `
{{define "topic"}}<div class="bg-{{.Color}}-100 p-4 rounded-lg">
<h2 class="text-{{.Color}}-600 font-bold">{{.Title}}</h2>
{{range .Facts}}<p>{{.Label}}: {{.Value}}</p>
{{end}}{{if .Body}}<div class="prose">{{.Body}}</div>
{{end}}{{if .Items}}<ul class="list-disc pl-5">{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{end}}</div>{{end}}

{{define "error"}}<div class="bg-red-100 p-4 rounded-lg">
<h2 class="text-red-600 font-bold">Error en {{.Title}}</h2>
<p>{{.Message}}</p>
</div>{{end}}

{{define "final"}}<div class="bg-white p-6 rounded-lg shadow-md">
<h1 class="text-2xl font-bold text-blue-600 mb-4">Resumen Final</h1>
{{if .Summary}}<div class="mb-4">{{.Summary}}</div>
{{end}}{{if .UserData}}<div class="bg-gray-100 p-4 rounded-lg mb-4">
<h2 class="text-gray-600 font-bold">Información del Usuario</h2>
<pre class="bg-white p-2 rounded">{{.UserData}}</pre>
</div>
{{end}}<div class="mb-4">
<h2 class="text-xl font-bold text-red-600">Problemas Identificados</h2>
<ul class="list-disc pl-5">{{range .Problems}}<li class="mb-2 p-2 bg-red-100 rounded">{{.}}</li>{{end}}</ul>
</div>
<div>
<h2 class="text-xl font-bold text-green-600">Recomendaciones</h2>
<ul class="list-disc pl-5">{{range .Recommendations}}<li class="mb-2 p-2 bg-green-100 rounded">{{.}}</li>{{end}}</ul>
</div>
</div>{{end}}

{{define "unknown"}}<div class="bg-gray-100 p-4 rounded-lg">
<h2 class="text-gray-600 font-bold">Respuesta Desconocida</h2>
<p>No se pudo determinar el tipo de respuesta.</p>
</div>{{end}}
`

type topic struct {
	Color string
	Title string
	Facts []fact
}

type fact struct {
	Key   string
	Label string
}

var topics = map[string]topic{
	string(contractx.AgentTypeEnergy):     {Color: "green", Title: "Datos de Energía Renovable", Facts: []fact{{"country", "País"}}},
	string(contractx.AgentTypeMoney):      {Color: "blue", Title: "Asesoramiento Financiero", Facts: []fact{{"topic", "Tema"}, {"value", "Valor"}}},
	string(contractx.AgentTypeHealth):     {Color: "yellow", Title: "Datos de Salud", Facts: []fact{{"indicator", "Indicador"}, {"value", "Valor"}}},
	string(contractx.AgentTypeClimate):    {Color: "teal", Title: "Datos Climáticos", Facts: []fact{{"latitude", "Latitud"}, {"longitude", "Longitud"}}},
	string(contractx.AgentTypeGovernment): {Color: "indigo", Title: "Información de Gobierno", Facts: []fact{{"country", "País"}, {"city", "Ciudad"}}},
	string(contractx.AgentTypeEmigration): {Color: "purple", Title: "Emigración"},
	string(contractx.AgentTypePayment):    {Color: "orange", Title: "Pagos", Facts: []fact{{"transaction_id", "Transacción"}, {"message", "Detalle"}}},
	string(contractx.AgentTypeSupervisor): {Color: "blue", Title: "Respuesta del Asistente"},
	string(contractx.AgentTypeHTML):       {Color: "blue", Title: "Respuesta del Asistente"},
}

type topicView struct {
	Color string
	Title string
	Facts []factView
	Body  template.HTML
	Items []string
}

type factView struct {
	Label string
	Value string
}

type finalView struct {
	Summary         template.HTML
	UserData        string
	Problems        []string
	Recommendations []string
}

// Cards renders outputs with fixed per-type templates. Free text is treated
// as markdown; every model supplied fragment is sanitized.
type Cards struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	tpl    *template.Template
}

func NewCards() *Cards {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()

	return &Cards{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: policy,
		tpl:    template.Must(template.New("cards").Parse(cardTemplates)),
	}
}

func (c *Cards) Cards(out contractx.AgentOutput) string {
	var (
		name string
		data any
	)

	switch t, known := topics[out.AgentType]; {
	case out.AgentType == string(contractx.AgentTypeFinalOutput):
		name, data = "final", c.finalView(out)
	case !known:
		name = "unknown"
	case out.Status == contractx.StatusError:
		msg := stringField(out.Fields, "message")
		if msg == "" {
			msg = out.Data
		}
		name, data = "error", struct{ Title, Message string }{Title: t.Title, Message: msg}
	default:
		name, data = "topic", c.topicView(t, out)
	}

	var buf bytes.Buffer
	if err := c.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Warn().Err(err).Str("agent_type", out.AgentType).Msg("render card failed")
		return ""
	}
	return buf.String()
}

func (c *Cards) topicView(t topic, out contractx.AgentOutput) topicView {
	v := topicView{
		Color: t.Color,
		Title: t.Title,
		Body:  c.markdown(out.Data),
		Items: stringList(out.Fields["tips"]),
	}
	for _, f := range t.Facts {
		if val := stringField(out.Fields, f.Key); val != "" {
			v.Facts = append(v.Facts, factView{Label: f.Label, Value: val})
		}
	}
	return v
}

func (c *Cards) finalView(out contractx.AgentOutput) finalView {
	v := finalView{
		Summary:         template.HTML(c.policy.Sanitize(stringField(out.Fields, "html_summary"))),
		Problems:        stringList(out.Fields["problems"]),
		Recommendations: stringList(out.Fields["recommendations"]),
	}
	if ud, ok := out.Fields["user_data"].(map[string]any); ok && len(ud) > 0 {
		if raw, err := json.MarshalIndent(ud, "", "  "); err == nil {
			v.UserData = string(raw)
		}
	}
	if v.Summary == "" && out.Data != "" {
		v.Summary = c.markdown(out.Data)
	}
	return v
}

func (c *Cards) markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(c.policy.SanitizeBytes(buf.Bytes()))
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, fmt.Sprintf("%s: %v", k, t[k]))
		}
		return out
	default:
		return nil
	}
}
