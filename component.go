package checkgroup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Choice is one checkbox offered by a served group.
type Choice struct {
	Label   string `yaml:"label" json:"label"`
	Value   string `yaml:"value" json:"value"`
	Checked bool   `yaml:"checked" json:"checked"`
}

// Definition describes a group served over HTTP: its form name, its
// configuration and the checkboxes projected into it.
type Definition struct {
	Name    string
	Config  Config
	Choices []Choice
}

// Component serves one group definition over HTMX.
//
// The server keeps no per-user state: every response embeds the group's
// State in signed props, and every request rebuilds a Group from the
// definition plus the decoded State, applies the action and renders again.
//
//	toppings := checkgroup.NewComponent(def, checkgroup.WithAggregateValidity(true))
//	reg := checkgroup.NewRegistry(key)
//	reg.Add(toppings)
//	http.Handle("/_c/", reg.Handler())
//
// Actions (all POST except the default render):
//
//	GET  {prefix}/                  render
//	POST {prefix}/toggle           i=<index>   user click on a checkbox
//	POST {prefix}/focus            i=<index>   focus on a checkbox (host driven)
//	POST {prefix}/blur             i=<index>   blur on a checkbox (fieldset focusout)
//	POST {prefix}/clear                        Clear
//	POST {prefix}/validate                     ReportValidity
//	POST {prefix}/custom-validity  message=…   SetCustomValidity
//
// The rendered fieldset posts /blur on focusout, so leaving a checkbox
// reports validity and announces checkgroup:blur. Focus is not wired in the
// markup; pages that need checkgroup:focus post /focus themselves, for
// example with htmx.ajax from a focusin listener.
//
// Group events raised while handling an action are announced to the page
// through HX-Trigger as "checkgroup:<kind>" with the child's index, value
// and checked state.
type Component struct {
	def       Definition
	prefix    string
	sensitive bool
	opts      []Option
	encoder   *Encoder
	registry  *Registry
}

// NewComponent creates a component for def. Group options apply to every
// group the component builds.
//
// The component's URL prefix is derived from the name and source location
// (file:line where NewComponent is called).
func NewComponent(def Definition, opts ...Option) *Component {
	def.Config = def.Config.Normalize()
	return &Component{
		def:    def,
		prefix: "/_c/" + slug(def.Name) + "-" + componentHash(def.Name, 1),
		opts:   opts,
	}
}

// Sensitive switches props from signed to encrypted.
func (c *Component) Sensitive() *Component {
	c.sensitive = true
	return c
}

// Name returns the definition name.
func (c *Component) Name() string { return c.def.Name }

// Prefix returns the component's URL prefix.
func (c *Component) Prefix() string { return c.prefix }

// ID returns the DOM id of the rendered fieldset.
func (c *Component) ID() string { return "cg-" + strings.TrimPrefix(c.prefix, "/_c/") }

// Definition returns the served definition.
func (c *Component) Definition() Definition { return c.def }

// SetEncoder sets the props encoder (called by the registry).
func (c *Component) SetEncoder(enc *Encoder) { c.encoder = enc }

// Initial returns the state of a group that was never interacted with.
func (c *Component) Initial() State {
	checked := make([]bool, len(c.def.Choices))
	for i, choice := range c.def.Choices {
		checked[i] = choice.Checked
	}
	return State{Checked: checked}
}

// Instance is a group rebuilt for a single request.
type Instance struct {
	Group    *Group
	Boxes    []*Checkbox
	Triggers []Trigger
}

// State snapshots the instance for the next round trip.
func (in *Instance) State() State {
	checked := make([]bool, len(in.Boxes))
	for i, b := range in.Boxes {
		checked[i] = b.Checked()
	}
	return State{
		Checked:     checked,
		CustomError: in.Group.CustomValidity(),
		Reported:    in.Group.Reported(),
	}
}

// Hydrate rebuilds the group described by state. Group events raised after
// hydration are recorded as Triggers.
func (c *Component) Hydrate(state State) (*Instance, error) {
	if len(state.Checked) != len(c.def.Choices) {
		return nil, fmt.Errorf("%w: state has %d flags for %d choices",
			ErrInvalidFormat, len(state.Checked), len(c.def.Choices))
	}

	g := New(c.def.Config, c.opts...)
	inst := &Instance{Group: g, Boxes: make([]*Checkbox, len(c.def.Choices))}
	nodes := make([]any, len(c.def.Choices))
	for i, choice := range c.def.Choices {
		box := NewCheckbox(choice.Label, choice.Value)
		box.SetName(c.def.Name)
		box.SetChecked(state.Checked[i])
		inst.Boxes[i] = box
		nodes[i] = box
	}
	g.Slot().Assign(nodes...)

	switch {
	case state.CustomError != "":
		g.SetCustomValidity(state.CustomError)
	case state.Reported:
		g.ReportValidity()
	}

	for _, kind := range EventKinds {
		g.On(kind, func(ev Event) {
			inst.Triggers = append(inst.Triggers, c.trigger(inst, ev))
		})
	}
	return inst, nil
}

func (c *Component) trigger(inst *Instance, ev Event) Trigger {
	detail := map[string]any{
		"group":   c.def.Name,
		"index":   -1,
		"checked": ev.Target.Checked(),
	}
	for i, b := range inst.Boxes {
		if Checkable(b) == ev.Target {
			detail["index"] = i
			break
		}
	}
	if v, ok := ev.Target.(Valuer); ok {
		detail["value"] = v.Value()
	}
	return Trigger{Name: "checkgroup:" + string(ev.Kind), Detail: detail}
}

// Render returns the group for state wired with HTMX attributes. Invalid
// states render as an inline error.
func (c *Component) Render(state State) templ.Component {
	inst, err := c.Hydrate(state)
	if err != nil {
		return errorComponent(err)
	}
	return c.view(inst)
}

func (c *Component) view(inst *Instance) templ.Component {
	encoded, err := c.encode(inst.State())
	if err != nil {
		return errorComponent(err)
	}

	for i, box := range inst.Boxes {
		attrs := WireAttrs(c.prefix+"/toggle", http.MethodPost, encoded, map[string]any{"i": i})
		attrs["id"] = fmt.Sprintf("%s-%d", c.ID(), i)
		attrs["data-index"] = strconv.Itoa(i)
		attrs["hx-trigger"] = "change"
		attrs["hx-target"] = "#" + c.ID()
		attrs["hx-swap"] = "outerHTML"
		box.SetAttrs(attrs)
	}

	// focusout bubbles from the input; its data-index names the child.
	attrs := templ.Attributes{
		"hx-post": c.prefix + "/blur",
		"hx-vals": `js:{"p":"` + encoded + `","i":event.target.dataset.index}`,
	}
	attrs["id"] = c.ID()
	attrs["hx-trigger"] = "focusout"
	attrs["hx-target"] = "this"
	attrs["hx-swap"] = "outerHTML"
	attrs["hx-sync"] = "this:queue last"
	return inst.Group.Component(attrs)
}

func (c *Component) encode(state State) (string, error) {
	if c.encoder == nil {
		return "", fmt.Errorf("checkgroup: component %q has no encoder; add it to a Registry", c.def.Name)
	}
	return c.encoder.Encode(state, c.sensitive)
}

func (c *Component) decode(encoded string) (State, error) {
	var state State
	if c.encoder == nil {
		return state, fmt.Errorf("checkgroup: component %q has no encoder; add it to a Registry", c.def.Name)
	}
	if err := c.encoder.Decode(encoded, c.sensitive, &state); err != nil {
		return state, WrapDecodeError(err)
	}
	return state, nil
}

// ServeHTTP dispatches requests under the component prefix.
func (c *Component) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, c.prefix), "/")

	if action == "" {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
	} else if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := c.requestState(r, action)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	inst, err := c.Hydrate(state)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	if err := c.apply(inst, action, r); err != nil {
		c.fail(w, r, err)
		return
	}

	c.report(ActionReport{
		Group:  c.def.Name,
		Action: actionName(action),
		Valid:  inst.Group.Valid(),
		Events: len(inst.Triggers),
	})

	if header := BuildTriggerHeader(inst.Triggers); header != "" {
		w.Header().Set("HX-Trigger", header)
	}
	if err := Render(w, r, c.view(inst)); err != nil {
		c.fail(w, r, err)
	}
}

func (c *Component) requestState(r *http.Request, action string) (State, error) {
	var encoded string
	if action == "" {
		encoded = r.URL.Query().Get("p")
	} else {
		encoded = r.FormValue("p")
	}
	if encoded == "" {
		if action == "" {
			return c.Initial(), nil
		}
		return State{}, fmt.Errorf("%w: missing props", ErrInvalidFormat)
	}
	return c.decode(encoded)
}

func (c *Component) apply(inst *Instance, action string, r *http.Request) error {
	g := inst.Group
	switch action {
	case "":
	case "toggle", "focus", "blur":
		box, err := inst.child(r.FormValue("i"))
		if err != nil {
			return err
		}
		switch action {
		case "toggle":
			box.Click()
		case "focus":
			box.Dispatch(EventFocus)
		case "blur":
			box.Dispatch(EventBlur)
		}
	case "clear":
		g.Clear()
	case "validate":
		g.ReportValidity()
	case "custom-validity":
		g.SetCustomValidity(r.FormValue("message"))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (in *Instance) child(raw string) (*Checkbox, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(in.Boxes) {
		return nil, fmt.Errorf("%w: %q", ErrChildIndex, raw)
	}
	return in.Boxes[i], nil
}

func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.registry != nil && c.registry.OnError != nil {
		c.registry.OnError(w, r, err)
		return
	}
	DefaultErrorHandler(w, r, err)
}

func (c *Component) report(rep ActionReport) {
	if c.registry != nil && c.registry.OnAction != nil {
		c.registry.OnAction(rep)
	}
}

func actionName(action string) string {
	if action == "" {
		return "render"
	}
	return action
}

// errorComponent renders err as an inline message.
func errorComponent(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, werr := io.WriteString(w, `<div class="checkgroup-error">Render error: `+templ.EscapeString(err.Error())+`</div>`)
		return werr
	})
}

// slug keeps names usable as a single URL path segment.
func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	if sb.Len() == 0 {
		return "group"
	}
	return sb.String()
}

// componentHash generates a deterministic hash based on component name and source location.
// This ensures each component instance gets a unique prefix without manual coordination.
func componentHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		// Use base filename only for portability across environments
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4]) // 8 hex chars
}
