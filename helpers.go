package checkgroup

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use it to embed served groups in ordinary pages:
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    checkgroup.Render(w, r, toppings.Render(toppings.Initial()))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// TriggerName returns the name attribute of the element that triggered the request.
//
// Returns empty string if not present.
func TriggerName(r *http.Request) string {
	return r.Header.Get("HX-Trigger-Name")
}

// TriggerID returns the id attribute of the element that triggered the request.
//
// Returns empty string if not present.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// Trigger is one client-side event announced through the HX-Trigger header.
type Trigger struct {
	Name   string
	Detail map[string]any
}

// BuildTriggerHeader builds a properly formatted HX-Trigger header value.
//
// Supports three cases:
//  1. One event without data: "checkgroup:clear" -> checkgroup:clear
//  2. Events with data: {"checkgroup:focus": {"index": 0}}
//  3. The same event several times: the details are collected in emission
//     order, {"checkgroup:change": [{"index": 1}, {"index": 0}]}
//
// HTMX fires each top-level key as a DOM event with evt.detail set to the value.
func BuildTriggerHeader(triggers []Trigger) string {
	if len(triggers) == 0 {
		return ""
	}
	if len(triggers) == 1 && triggers[0].Detail == nil {
		return triggers[0].Name
	}

	details := make(map[string][]any, len(triggers))
	for _, t := range triggers {
		var d any = true
		if t.Detail != nil {
			d = t.Detail
		}
		details[t.Name] = append(details[t.Name], d)
	}

	merged := make(map[string]any, len(details))
	for name, list := range details {
		if len(list) == 1 {
			merged[name] = list[0]
		} else {
			merged[name] = list
		}
	}

	data, _ := json.Marshal(merged)
	return string(data)
}
