package checkgroup

// Checkable is the capability contract a group requires from each child.
//
// Implementations must be comparable (pointer receivers are the norm): the
// group tracks subscriptions per handle and identifies the event target by
// equality.
//
// SetChecked is a programmatic update and must not emit a change event;
// change events describe user interaction. Focus and Blur emit the matching
// event when the focus state actually changes.
type Checkable interface {
	Checked() bool
	SetChecked(checked bool)
	Focus()
	Blur()

	// On registers a listener for kind and returns a function that removes
	// it. Events must carry the child itself as Target.
	On(kind EventKind, fn Listener) (cancel func())
}

// Validator is implemented by children that report their own validity.
// Consulted only when the group aggregates child validity.
type Validator interface {
	CheckValidity() bool
}

// ReadOnlySetter is implemented by children that accept the group's
// read-only flag as a pushed property.
type ReadOnlySetter interface {
	SetReadOnly(readOnly bool)
}

// Binder is implemented by children that hold a back-reference to their
// group and pull state from it. Bind(nil) detaches the child.
type Binder interface {
	Bind(g *Group)
}

// Valuer is implemented by children that carry a submitted form value.
type Valuer interface {
	Value() string
}
