package checkgroup

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var toppings = Definition{
	Name:   "toppings",
	Config: Config{Label: "Toppings", Required: true},
	Choices: []Choice{
		{Label: "Cheese", Value: "cheese"},
		{Label: "Ham", Value: "ham", Checked: true},
		{Label: "Olives", Value: "olives"},
	},
}

func newServed(t *testing.T, def Definition, opts ...Option) (*Registry, *Component) {
	t.Helper()
	reg := NewRegistry([]byte("test-key"))
	comp := NewComponent(def, opts...)
	reg.Add(comp)
	return reg, comp
}

func decodeState(t *testing.T, reg *Registry, comp *Component, result *TestResult) State {
	t.Helper()
	props := result.Props()
	require.NotEmpty(t, props, "response carries no props:\n%s", result.HTML)
	state, err := comp.decode(props)
	require.NoError(t, err)
	return state
}

func TestComponentInitialRender(t *testing.T) {
	reg, comp := newServed(t, toppings)

	result := TestGet(reg.Handler(), comp.Prefix()+"/")
	require.True(t, result.IsOK(), "status %d: %s", result.StatusCode, result.HTML)

	assert.True(t, result.HTMLContainsAll(
		`id="`+comp.ID()+`"`,
		`hx-post="`+comp.Prefix()+`/toggle"`,
		`hx-post="`+comp.Prefix()+`/blur"`,
		`hx-vals="js:{&#34;p&#34;:&#34;`,
		`&#34;i&#34;:event.target.dataset.index}"`,
		`data-index="0"`,
		`data-index="2"`,
		`name="toppings" value="cheese"`,
		`value="ham" checked`,
		`<abbr class="slds-required" title="required">*</abbr>Toppings`,
	), result.HTML)
	assert.False(t, result.HTMLContains("slds-has-error"))
	assert.Empty(t, result.TriggeredEvents)

	state := decodeState(t, reg, comp, result)
	assert.Equal(t, []bool{false, true, false}, state.Checked)
	assert.False(t, state.Reported)
}

func TestComponentToggleSingleSelect(t *testing.T) {
	reg, comp := newServed(t, toppings)
	props := TestGet(reg.Handler(), comp.Prefix()+"/").Props()

	result := TestPost(reg.Handler(), comp.Prefix()+"/toggle", map[string]string{"p": props, "i": "0"})
	require.True(t, result.IsOK(), "status %d: %s", result.StatusCode, result.HTML)

	state := decodeState(t, reg, comp, result)
	assert.Equal(t, []bool{true, false, false}, state.Checked)
	assert.ElementsMatch(t, []string{"checkgroup:click", "checkgroup:input", "checkgroup:change"}, result.TriggeredEvents)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Headers.Get("HX-Trigger")), &payload))
	changes, ok := payload["checkgroup:change"].([]any)
	require.True(t, ok, "expected two change details, got %v", payload["checkgroup:change"])
	require.Len(t, changes, 2)
	assert.Equal(t, map[string]any{"group": "toppings", "index": float64(1), "value": "ham", "checked": false}, changes[0])
	assert.Equal(t, map[string]any{"group": "toppings", "index": float64(0), "value": "cheese", "checked": true}, changes[1])
}

func TestComponentToggleMultiple(t *testing.T) {
	def := toppings
	def.Config.Multiple = true
	reg, comp := newServed(t, def)
	props := TestGet(reg.Handler(), comp.Prefix()+"/").Props()

	result := TestPost(reg.Handler(), comp.Prefix()+"/toggle", map[string]string{"p": props, "i": "2"})
	require.True(t, result.IsOK())

	state := decodeState(t, reg, comp, result)
	assert.Equal(t, []bool{false, true, true}, state.Checked)
}

func TestComponentClearAndValidate(t *testing.T) {
	reg, comp := newServed(t, toppings)
	h := reg.Handler()
	props := TestGet(h, comp.Prefix()+"/").Props()

	cleared := TestPost(h, comp.Prefix()+"/clear", map[string]string{"p": props})
	require.True(t, cleared.IsOK())
	assert.Empty(t, cleared.TriggeredEvents, "Clear raises no events")
	assert.False(t, cleared.HTMLContains("slds-has-error"), "Clear does not report validity")

	validated := TestPost(h, comp.Prefix()+"/validate", map[string]string{"p": cleared.Props()})
	require.True(t, validated.IsOK())
	assert.True(t, validated.HTMLContainsAll("slds-has-error", DefaultMessageWhenValueMissing), validated.HTML)

	state := decodeState(t, reg, comp, validated)
	assert.Equal(t, []bool{false, false, false}, state.Checked)
	assert.True(t, state.Reported)

	// Reported state survives the round trip: the next render still shows the error.
	again := TestGet(h, comp.Prefix()+"/?p="+validated.Props())
	assert.True(t, again.HTMLContains("slds-has-error"), again.HTML)
}

func TestComponentBlurReports(t *testing.T) {
	reg, comp := newServed(t, toppings)
	h := reg.Handler()
	props := TestPost(h, comp.Prefix()+"/clear", map[string]string{"p": TestGet(h, comp.Prefix()+"/").Props()}).Props()

	result := TestPost(h, comp.Prefix()+"/blur", map[string]string{"p": props, "i": "1"})
	require.True(t, result.IsOK())
	assert.True(t, result.HasEvent("checkgroup:blur"))
	assert.True(t, result.HTMLContains("slds-has-error"))
}

func TestComponentCustomValidity(t *testing.T) {
	reg, comp := newServed(t, toppings)
	h := reg.Handler()
	props := TestGet(h, comp.Prefix()+"/").Props()

	result := TestPost(h, comp.Prefix()+"/custom-validity", map[string]string{"p": props, "message": "Pick <b>one</b>"})
	require.True(t, result.IsOK())
	assert.True(t, result.HTMLContains(`role="alert">Pick one</div>`), result.HTML)

	state := decodeState(t, reg, comp, result)
	assert.Equal(t, "Pick <b>one</b>", state.CustomError)

	cleared := TestPost(h, comp.Prefix()+"/custom-validity", map[string]string{"p": result.Props(), "message": ""})
	assert.False(t, cleared.HTMLContains("slds-has-error"), "ham is checked, group is valid again")
}

func TestComponentErrors(t *testing.T) {
	reg, comp := newServed(t, toppings)
	h := reg.Handler()
	props := TestGet(h, comp.Prefix()+"/").Props()

	tests := []struct {
		name   string
		path   string
		form   map[string]string
		status int
	}{
		{"missing props", "/toggle", map[string]string{"i": "0"}, http.StatusBadRequest},
		{"tampered props", "/toggle", map[string]string{"p": props + "x", "i": "0"}, http.StatusBadRequest},
		{"garbage props", "/clear", map[string]string{"p": "not-props"}, http.StatusBadRequest},
		{"index out of range", "/toggle", map[string]string{"p": props, "i": "3"}, http.StatusBadRequest},
		{"index not a number", "/focus", map[string]string{"p": props, "i": "x"}, http.StatusBadRequest},
		{"unknown action", "/explode", map[string]string{"p": props}, http.StatusNotFound},
		{"post to render", "/", map[string]string{"p": props}, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TestPost(h, comp.Prefix()+tt.path, tt.form)
			assert.Equal(t, tt.status, result.StatusCode, result.HTML)
		})
	}

	get := TestGet(h, comp.Prefix()+"/toggle")
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestComponentSensitive(t *testing.T) {
	reg := NewRegistry([]byte("test-key"))
	comp := NewComponent(toppings).Sensitive()
	reg.Add(comp)

	props := TestGet(reg.Handler(), comp.Prefix()+"/").Props()
	require.NotEmpty(t, props)
	assert.NotContains(t, props, ".", "encrypted props carry no visible signature")

	result := TestPost(reg.Handler(), comp.Prefix()+"/toggle", map[string]string{"p": props, "i": "2"})
	require.True(t, result.IsOK())
	assert.Equal(t, []bool{false, false, true}, decodeState(t, reg, comp, result).Checked)
}

func TestComponentHydrate(t *testing.T) {
	_, comp := newServed(t, toppings, WithAggregateValidity(true))

	inst, err := comp.Hydrate(comp.Initial())
	require.NoError(t, err)
	require.Len(t, inst.Boxes, 3)
	assert.Len(t, inst.Group.Children(), 3)
	assert.Equal(t, "toppings", inst.Boxes[0].Name())
	assert.Equal(t, comp.Initial(), inst.State())

	inst.Boxes[0].Click()
	assert.Len(t, inst.Triggers, 4)

	_, err = comp.Hydrate(State{Checked: []bool{true}})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestComponentRenderWithoutRegistry(t *testing.T) {
	comp := NewComponent(toppings)
	out := renderString(t, comp.Render(comp.Initial()))
	assert.Contains(t, out, "checkgroup-error")
	assert.Contains(t, out, "no encoder")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "pizza-toppings", slug("Pizza Toppings"))
	assert.Equal(t, "a_b-c", slug("a_b-c"))
	assert.Equal(t, "group", slug(""))
}
