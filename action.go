package checkgroup

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// WireAttrs builds the minimal HTMX attributes for a group action.
//
// For GET actions, returns hx-get with the encoded state in the URL query
// string. For POST/PUT/DELETE/PATCH, returns hx-post (etc.) with the state
// and any extra values in hx-vals.
//
// Everything else (hx-target, hx-swap, hx-trigger) is left to the caller:
//
//	attrs := checkgroup.WireAttrs(prefix+"/toggle", http.MethodPost, encoded, map[string]any{"i": 2})
//	attrs["hx-trigger"] = "change"
func WireAttrs(path, method, encoded string, vals map[string]any) templ.Attributes {
	attrs := templ.Attributes{}

	if method == http.MethodGet || method == "" {
		url := path
		if encoded != "" {
			url = path + "?p=" + encoded
		}
		attrs["hx-get"] = url
		return attrs
	}

	switch method {
	case http.MethodPost:
		attrs["hx-post"] = path
	case http.MethodPut:
		attrs["hx-put"] = path
	case http.MethodPatch:
		attrs["hx-patch"] = path
	case http.MethodDelete:
		attrs["hx-delete"] = path
	}

	payload := make(map[string]any, len(vals)+1)
	for k, v := range vals {
		payload[k] = v
	}
	if encoded != "" {
		payload["p"] = encoded
	}
	if len(payload) > 0 {
		data, _ := json.Marshal(payload)
		attrs["hx-vals"] = string(data)
	}

	return attrs
}
