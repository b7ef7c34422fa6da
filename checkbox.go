package checkgroup

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Checkbox is the stock Checkable child. It renders as a native checkbox
// input and models the browser's event order for user interaction.
//
//	g := checkgroup.New(checkgroup.Config{Label: "Toppings", Required: true})
//	g.Register(checkgroup.NewCheckbox("Cheese", "cheese"))
//	g.Register(checkgroup.NewCheckbox("Olives", "olives"))
type Checkbox struct {
	emitter

	name        string
	label       string
	value       string
	checked     bool
	readOnly    bool
	focused     bool
	customError string
	group       *Group
	attrs       templ.Attributes
}

// NewCheckbox creates an unchecked checkbox.
func NewCheckbox(label, value string) *Checkbox {
	return &Checkbox{label: label, value: value}
}

func (c *Checkbox) Label() string { return c.label }
func (c *Checkbox) Value() string { return c.value }
func (c *Checkbox) Name() string  { return c.name }

// SetName sets the form field name rendered on the input.
func (c *Checkbox) SetName(name string) { c.name = name }

// Checked reports the checked state.
func (c *Checkbox) Checked() bool { return c.checked }

// SetChecked updates the checked state without emitting events.
func (c *Checkbox) SetChecked(checked bool) { c.checked = checked }

// ReadOnly reports whether the checkbox ignores interaction, either because
// the flag was pushed to it or because its bound group is read-only.
func (c *Checkbox) ReadOnly() bool {
	return c.readOnly || (c.group != nil && c.group.ReadOnly())
}

// SetReadOnly implements ReadOnlySetter.
func (c *Checkbox) SetReadOnly(readOnly bool) { c.readOnly = readOnly }

// Bind implements Binder.
func (c *Checkbox) Bind(g *Group) { c.group = g }

// Group returns the bound group, nil when unbound.
func (c *Checkbox) Group() *Group { return c.group }

// Focused reports whether the checkbox holds focus.
func (c *Checkbox) Focused() bool { return c.focused }

// Focus gives the checkbox focus, emitting a focus event if it did not
// already have it.
func (c *Checkbox) Focus() {
	if c.focused {
		return
	}
	c.focused = true
	c.emit(Event{Kind: EventFocus, Target: c})
}

// Blur removes focus, emitting a blur event if the checkbox had it.
func (c *Checkbox) Blur() {
	if !c.focused {
		return
	}
	c.focused = false
	c.emit(Event{Kind: EventBlur, Target: c})
}

// Click toggles the checkbox as a user would, emitting click, input and
// change in that order. Read-only checkboxes ignore clicks. Returns whether
// the state changed.
func (c *Checkbox) Click() bool {
	if c.ReadOnly() {
		return false
	}
	c.checked = !c.checked
	c.emit(Event{Kind: EventClick, Target: c})
	c.emit(Event{Kind: EventInput, Target: c})
	c.emit(Event{Kind: EventChange, Target: c})
	return true
}

// Dispatch emits an event that happened outside this process, such as a
// browser-side focus change reported over HTTP. Focus state follows focus
// and blur events.
func (c *Checkbox) Dispatch(kind EventKind) {
	switch kind {
	case EventFocus:
		c.focused = true
	case EventBlur:
		c.focused = false
	}
	c.emit(Event{Kind: kind, Target: c})
}

// On implements Checkable.
func (c *Checkbox) On(kind EventKind, fn Listener) func() {
	return c.on(kind, fn)
}

// ListenerCount returns the number of listeners registered for kind.
func (c *Checkbox) ListenerCount(kind EventKind) int {
	return c.count(kind)
}

// SetCustomValidity marks the checkbox invalid until cleared with "".
func (c *Checkbox) SetCustomValidity(msg string) { c.customError = msg }

// CheckValidity implements Validator.
func (c *Checkbox) CheckValidity() bool { return c.customError == "" }

// SetAttrs sets extra attributes rendered on the input element.
func (c *Checkbox) SetAttrs(attrs templ.Attributes) { c.attrs = attrs }

// Render implements templ.Component.
func (c *Checkbox) Render(ctx context.Context, w io.Writer) error {
	return renderCheckbox(c).Render(ctx, w)
}
