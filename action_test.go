package checkgroup

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWireAttrsMethods(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		wantAttr string
	}{
		{"GET", http.MethodGet, "hx-get"},
		{"POST", http.MethodPost, "hx-post"},
		{"PUT", http.MethodPut, "hx-put"},
		{"PATCH", http.MethodPatch, "hx-patch"},
		{"DELETE", http.MethodDelete, "hx-delete"},
		{"empty defaults to GET", "", "hx-get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := WireAttrs("/url", tt.method, "", nil)
			if _, ok := attrs[tt.wantAttr]; !ok {
				t.Errorf("Expected attribute %q not found in %v", tt.wantAttr, attrs)
			}
		})
	}
}

func TestWireAttrsGet(t *testing.T) {
	attrs := WireAttrs("/_c/toppings-1234/", http.MethodGet, "abc.def", nil)
	if attrs["hx-get"] != "/_c/toppings-1234/?p=abc.def" {
		t.Errorf("hx-get = %q", attrs["hx-get"])
	}
	if _, ok := attrs["hx-vals"]; ok {
		t.Error("GET actions should not carry hx-vals")
	}
}

func TestWireAttrsPostVals(t *testing.T) {
	attrs := WireAttrs("/_c/toppings-1234/toggle", http.MethodPost, "abc.def", map[string]any{"i": 2})
	if attrs["hx-post"] != "/_c/toppings-1234/toggle" {
		t.Errorf("hx-post = %q", attrs["hx-post"])
	}

	raw, ok := attrs["hx-vals"].(string)
	if !ok {
		t.Fatalf("hx-vals missing or not a string: %v", attrs["hx-vals"])
	}
	var vals map[string]any
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		t.Fatalf("hx-vals is not JSON: %v", err)
	}
	want := map[string]any{"p": "abc.def", "i": float64(2)}
	if diff := cmp.Diff(want, vals); diff != "" {
		t.Errorf("hx-vals mismatch (-want +got):\n%s", diff)
	}
}

func TestWireAttrsPostWithoutPayload(t *testing.T) {
	attrs := WireAttrs("/x", http.MethodPost, "", nil)
	if _, ok := attrs["hx-vals"]; ok {
		t.Error("hx-vals should be omitted when there is nothing to send")
	}
}
