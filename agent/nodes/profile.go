package orchestratornode

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProfilePrefix renders the user profile as the context block prepended to
// every turn.
func ProfilePrefix(profile map[string]any) string {
	return fmt.Sprintf("Información de usuario:\n```json\n%s\n```\n", indentJSON(profile))
}

func indentJSON(v any) string {
	if m, ok := v.(map[string]any); ok && m == nil {
		v = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
