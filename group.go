package checkgroup

import (
	"fmt"
	"strings"
)

// Group manages a set of checkable children as one form control.
//
// Children are discovered through the group's Slot: every structural change
// of the slot triggers HandleSlotChange, which rebuilds the ordered child
// set, applies the binding policy and (re)subscribes exactly one relay per
// child and event kind. Relayed events are re-emitted to listeners
// registered with On, always carrying the originating child as Target.
//
// Group is driven from a single logical thread (the host's render/event
// loop) and is not safe for concurrent use.
type Group struct {
	emitter

	cfg        Config
	opts       options
	slot       *Slot
	cancelSlot func()

	children []Checkable
	relays   map[Checkable]*relay

	valid       bool
	showError   bool
	reported    bool
	customError string
}

// relay holds the subscriptions a group owns on one child.
type relay struct {
	cancels []func()
}

func (r *relay) dispose() {
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
}

// New creates a group with the given configuration and an empty slot.
func New(cfg Config, opts ...Option) *Group {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := &Group{
		cfg:    cfg.Normalize(),
		opts:   o,
		relays: make(map[Checkable]*relay),
		valid:  true,
	}
	g.slot = NewSlot()
	g.cancelSlot = g.slot.OnChange(func(*Slot) { g.HandleSlotChange() })
	return g
}

// Slot returns the group's projected content.
func (g *Group) Slot() *Slot {
	return g.slot
}

// Register projects node into the group. Nodes that are not checkable are
// dropped again during the rescan.
func (g *Group) Register(node any) {
	g.slot.Append(node)
}

// Unregister removes node from the group's projected content.
func (g *Group) Unregister(node any) {
	g.slot.Remove(node)
}

// Children returns the current child set in render order.
func (g *Group) Children() []Checkable {
	return append([]Checkable(nil), g.children...)
}

// On registers a listener for events re-emitted by the group.
func (g *Group) On(kind EventKind, fn Listener) (cancel func()) {
	return g.on(kind, fn)
}

// Disconnect drops every child subscription and stops observing the slot.
// The slot content itself is left untouched.
func (g *Group) Disconnect() {
	for child, r := range g.relays {
		r.dispose()
		g.unbind(child)
		delete(g.relays, child)
	}
	g.children = nil
	if g.cancelSlot != nil {
		g.cancelSlot()
		g.cancelSlot = nil
	}
}

// Config returns the current normalized configuration.
func (g *Group) Config() Config { return g.cfg }

func (g *Group) Label() string                   { return g.cfg.Label }
func (g *Group) ReadOnly() bool                  { return g.cfg.ReadOnly }
func (g *Group) Required() bool                  { return g.cfg.Required }
func (g *Group) Multiple() bool                  { return g.cfg.Multiple }
func (g *Group) MessageWhenValueMissing() string { return g.cfg.MessageWhenValueMissing }
func (g *Group) Variant() Variant                { return g.cfg.Variant }

// SetConfig replaces the whole configuration. A change of the read-only
// flag is propagated to every current child.
func (g *Group) SetConfig(cfg Config) {
	prev := g.cfg
	g.cfg = cfg.Normalize()
	if prev.ReadOnly != g.cfg.ReadOnly {
		for _, child := range g.children {
			g.bind(child)
		}
	}
}

func (g *Group) SetLabel(label string) {
	cfg := g.cfg
	cfg.Label = label
	g.SetConfig(cfg)
}

func (g *Group) SetReadOnly(readOnly bool) {
	cfg := g.cfg
	cfg.ReadOnly = readOnly
	g.SetConfig(cfg)
}

func (g *Group) SetRequired(required bool) {
	cfg := g.cfg
	cfg.Required = required
	g.SetConfig(cfg)
}

func (g *Group) SetMultiple(multiple bool) {
	cfg := g.cfg
	cfg.Multiple = multiple
	g.SetConfig(cfg)
}

// SetMessageWhenValueMissing sets the fallback error text; an empty message
// restores DefaultMessageWhenValueMissing.
func (g *Group) SetMessageWhenValueMissing(msg string) {
	cfg := g.cfg
	cfg.MessageWhenValueMissing = msg
	g.SetConfig(cfg)
}

// SetVariant sets the label variant; unknown values become VariantLabelStacked.
func (g *Group) SetVariant(v Variant) {
	cfg := g.cfg
	cfg.Variant = v
	g.SetConfig(cfg)
}

// Clear unchecks every child. Validity is not recomputed.
func (g *Group) Clear() {
	for _, child := range g.children {
		child.SetChecked(false)
	}
}

// Blur asks every child to give up focus.
func (g *Group) Blur() {
	for _, child := range g.children {
		child.Blur()
	}
}

// Focus focuses the first child, if any.
func (g *Group) Focus() {
	if len(g.children) > 0 {
		g.children[0].Focus()
	}
}

// CheckValidity computes and stores the group's validity.
//
// A custom validity message makes an editable group invalid regardless of
// its children. Otherwise the group is valid unless it aggregates child
// validity and a child is invalid, or it is required and nothing is checked.
// Read-only groups are always valid, including when a custom message is set.
func (g *Group) CheckValidity() bool {
	if g.customError != "" && !g.cfg.ReadOnly {
		g.valid = false
		return g.valid
	}

	valid := true
	if !g.cfg.ReadOnly {
		if g.opts.aggregate {
			for _, child := range g.children {
				if v, ok := child.(Validator); ok && !v.CheckValidity() {
					valid = false
				}
			}
		}
		if g.cfg.Required {
			valid = valid && g.anyChecked()
		}
	}

	g.valid = valid
	return g.valid
}

// ReportValidity checks validity and shows the error affordance when the
// group is invalid.
func (g *Group) ReportValidity() bool {
	valid := g.CheckValidity()
	g.showError = !valid
	g.reported = true
	g.opts.logger.Debug("checkgroup: validity reported",
		"label", g.cfg.Label,
		"valid", valid,
		"children", len(g.children),
	)
	return valid
}

// SetCustomValidity sets (or, with "", clears) a custom error message and
// reports validity immediately.
func (g *Group) SetCustomValidity(msg string) {
	g.customError = msg
	g.ReportValidity()
}

// Valid returns the result of the last validity check.
func (g *Group) Valid() bool { return g.valid }

// ShowError reports whether the error affordance is visible.
func (g *Group) ShowError() bool { return g.showError }

// Reported reports whether validity has been reported at least once.
func (g *Group) Reported() bool { return g.reported }

// CustomValidity returns the custom error message, "" when none is set.
func (g *Group) CustomValidity() string { return g.customError }

// ErrorMessage returns the text shown when the error affordance is visible.
func (g *Group) ErrorMessage() string {
	if g.customError != "" {
		return g.customError
	}
	return g.cfg.MessageWhenValueMissing
}

// FormElementClass returns the container class list.
func (g *Group) FormElementClass() string {
	var sb strings.Builder
	sb.WriteString("slds-form-element")
	if g.showError {
		sb.WriteString(" slds-has-error")
	}
	if g.cfg.ReadOnly {
		sb.WriteString(" read-only")
	}
	return sb.String()
}

// ShowLabel reports whether the label is rendered visibly.
func (g *Group) ShowLabel() bool {
	return g.cfg.Variant != VariantLabelHidden && g.cfg.Label != ""
}

// HandleSlotChange rescans the slot. Nodes rejected by the child filter are
// removed from the slot, duplicates are ignored, children that left the slot
// lose their subscriptions, and every remaining child is rebound with
// exactly one relay per event kind.
func (g *Group) HandleSlotChange() {
	nodes := g.slot.Nodes()
	kept := make([]any, 0, len(nodes))
	next := make([]Checkable, 0, len(nodes))
	seen := make(map[Checkable]struct{}, len(nodes))

	for _, node := range nodes {
		child, ok := g.opts.accept(node)
		if !ok {
			g.opts.logger.Warn("checkgroup: removed non-checkable node from slot",
				"label", g.cfg.Label,
				"type", fmt.Sprintf("%T", node),
			)
			continue
		}
		kept = append(kept, node)
		if _, dup := seen[child]; dup {
			continue
		}
		seen[child] = struct{}{}
		next = append(next, child)
	}

	if len(kept) != len(nodes) {
		g.slot.retain(kept)
	}

	for child, r := range g.relays {
		if _, ok := seen[child]; ok {
			continue
		}
		r.dispose()
		g.unbind(child)
		delete(g.relays, child)
	}

	g.children = next
	for _, child := range next {
		g.bind(child)
		g.subscribe(child)
	}

	g.opts.logger.Debug("checkgroup: slot rescanned",
		"label", g.cfg.Label,
		"children", len(next),
		"binding", g.opts.binding.String(),
	)
}

func (g *Group) bind(child Checkable) {
	if g.opts.binding == BindBackReference {
		if b, ok := child.(Binder); ok {
			b.Bind(g)
			return
		}
	}
	if s, ok := child.(ReadOnlySetter); ok {
		s.SetReadOnly(g.cfg.ReadOnly)
	}
}

func (g *Group) unbind(child Checkable) {
	if g.opts.binding != BindBackReference {
		return
	}
	if b, ok := child.(Binder); ok {
		b.Bind(nil)
	}
}

// subscribe replaces any existing relay on child. Disposal and
// resubscription happen in one call so a child never holds two relays.
func (g *Group) subscribe(child Checkable) {
	r, ok := g.relays[child]
	if ok {
		r.dispose()
	} else {
		r = &relay{}
		g.relays[child] = r
	}

	r.cancels = append(r.cancels,
		child.On(EventChange, func(Event) { g.handleChange(child) }),
		child.On(EventClick, func(Event) { g.emit(Event{Kind: EventClick, Target: child}) }),
		child.On(EventInput, func(Event) { g.emit(Event{Kind: EventInput, Target: child}) }),
		child.On(EventFocus, func(Event) { g.emit(Event{Kind: EventFocus, Target: child}) }),
		child.On(EventBlur, func(Event) { g.handleBlur(child) }),
	)
}

func (g *Group) handleChange(target Checkable) {
	if !g.cfg.Multiple && target.Checked() {
		for _, sibling := range g.children {
			if sibling == target || !sibling.Checked() {
				continue
			}
			sibling.SetChecked(false)
			if g.opts.deselectEvents {
				g.emit(Event{Kind: EventChange, Target: sibling})
			}
		}
	}
	g.emit(Event{Kind: EventChange, Target: target})
}

func (g *Group) handleBlur(target Checkable) {
	g.ReportValidity()
	g.emit(Event{Kind: EventBlur, Target: target})
}

func (g *Group) anyChecked() bool {
	for _, child := range g.children {
		if child.Checked() {
			return true
		}
	}
	return false
}
