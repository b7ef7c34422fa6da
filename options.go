package checkgroup

import (
	"io"
	"log/slog"
	"reflect"
)

// BindingPolicy selects how a group hands its state to each child.
type BindingPolicy int

const (
	// BindReadOnly pushes the group's read-only flag into children that
	// implement ReadOnlySetter. Default.
	BindReadOnly BindingPolicy = iota

	// BindBackReference injects the group into children that implement
	// Binder so they can pull state from it. Children that are not Binders
	// fall back to BindReadOnly.
	BindBackReference
)

// String returns the policy name used in logs and manifests.
func (p BindingPolicy) String() string {
	switch p {
	case BindBackReference:
		return "back-reference"
	default:
		return "read-only"
	}
}

// ParseBindingPolicy maps a manifest value onto a policy. Unknown values
// yield BindReadOnly.
func ParseBindingPolicy(s string) BindingPolicy {
	if s == "back-reference" {
		return BindBackReference
	}
	return BindReadOnly
}

// Option configures a Group.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	aggregate      bool
	deselectEvents bool
	binding        BindingPolicy
	accept         func(node any) (Checkable, bool)
}

func defaultOptions() options {
	return options{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		deselectEvents: true,
		binding:        BindReadOnly,
		accept:         acceptCheckable,
	}
}

// acceptCheckable rejects handles the group cannot track: nil pointers and
// dynamic types that cannot be used as map keys.
func acceptCheckable(node any) (Checkable, bool) {
	c, ok := node.(Checkable)
	if !ok || c == nil {
		return nil, false
	}
	v := reflect.ValueOf(c)
	if !v.Type().Comparable() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
	}
	return c, true
}

// WithLogger sets the logger used for slot and validity diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAggregateValidity makes CheckValidity also require every child that
// implements Validator to be valid.
func WithAggregateValidity(enabled bool) Option {
	return func(o *options) {
		o.aggregate = enabled
	}
}

// WithDeselectEvents controls whether siblings unchecked by single-select
// enforcement emit their own change event before the selected child's.
// Enabled by default.
func WithDeselectEvents(enabled bool) Option {
	return func(o *options) {
		o.deselectEvents = enabled
	}
}

// WithBinding selects the binding policy.
func WithBinding(policy BindingPolicy) Option {
	return func(o *options) {
		o.binding = policy
	}
}

// WithChildFilter replaces the default "implements Checkable" test applied
// to projected nodes. Nodes rejected by accept are removed from the slot.
func WithChildFilter(accept func(node any) (Checkable, bool)) Option {
	return func(o *options) {
		if accept != nil {
			o.accept = accept
		}
	}
}
