// Package checkgroup implements a checkbox group form control: a container
// that discovers checkable children through a slot, relays their events,
// optionally enforces single selection and validates "at least one checked"
// when required.
//
// # Groups and children
//
// A Group owns a Slot. Whatever is projected into the slot is rescanned on
// every change: nodes that are not Checkable are dropped (with a warning),
// duplicates are kept once, and every child ends up with exactly one relay
// subscription per event kind.
//
//	g := checkgroup.New(checkgroup.Config{Label: "Toppings", Required: true})
//	g.Slot().Assign(
//	    checkgroup.NewCheckbox("Cheese", "cheese"),
//	    checkgroup.NewCheckbox("Olives", "olives"),
//	)
//	g.On(checkgroup.EventChange, func(ev checkgroup.Event) {
//	    log.Println("changed:", ev.Target.Checked())
//	})
//
// Without Multiple, checking one child unchecks every other checked child.
// Each sibling that was deselected produces its own change event before the
// change of the clicked child (see WithDeselectEvents).
//
// # Validity
//
// CheckValidity computes validity, ReportValidity additionally shows the
// error affordance. A custom message from SetCustomValidity overrides the
// required check. Read-only groups are always valid. Blurring a child
// reports validity before the blur is re-emitted.
//
// # Read-only propagation
//
// WithBinding selects how children learn about the group's read-only flag:
// BindReadOnly pushes the flag into children implementing ReadOnlySetter,
// BindBackReference hands children implementing Binder a reference to the
// group.
//
// # Rendering
//
// Group and Checkbox implement templ.Component and render SLDS markup.
//
// # Serving over HTMX
//
// Component serves a Definition statelessly: the group's State travels in
// signed (or, with Sensitive, encrypted) props and each request rebuilds
// the group, applies the action and renders the fieldset again. A Registry
// routes requests to components and rejects mutating requests that do not
// come from HTMX.
//
//	reg := checkgroup.NewRegistry(key)
//	reg.Add(checkgroup.NewComponent(def))
//	http.Handle("/_c/", reg.Handler())
package checkgroup
