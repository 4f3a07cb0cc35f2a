package api

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/guide-life-agents/agent/settings"
)

var settingsForm = template.Must(template.New("settings").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Configuración</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-100 p-6">
<form method="post" action="/settings/" class="max-w-3xl mx-auto bg-white p-6 rounded-lg shadow-md space-y-4">
<h1 class="text-2xl font-bold text-blue-600">Configuración de agentes</h1>
<label class="block">
<span class="font-bold">Prompt del asistente principal</span>
<textarea name="prompt" rows="10" class="w-full border rounded p-2">{{.Supervisor}}</textarea>
</label>
<label class="block">
<span class="font-bold">Prompt del resumen final</span>
<textarea name="final_output_prompt" rows="10" class="w-full border rounded p-2">{{.FinalOutput}}</textarea>
</label>
<button type="submit" class="bg-blue-600 text-white px-4 py-2 rounded">Guardar</button>
</form>
</body>
</html>
`))

func renderSettingsForm(w http.ResponseWriter, p settings.Prompts) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := settingsForm.Execute(w, p); err != nil {
		log.Warn().Err(err).Msg("render settings form failed")
	}
}
