// Package cgchi mounts checkbox group components on a chi router.
//
//	r := chi.NewRouter()
//	reg := cgchi.Mount(r, cgchi.WithKey(key))
//	reg.Add(checkgroup.NewComponent(def))
package cgchi

import (
	"crypto/rand"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/pthm/checkgroup"
)

// Option configures Mount.
type Option func(*options)

type options struct {
	key      []byte
	onAction func(checkgroup.ActionReport)
}

// WithKey sets the props key for the registry.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithActionHook installs fn as the registry's OnAction hook.
func WithActionHook(fn func(checkgroup.ActionReport)) Option {
	return func(o *options) {
		o.onAction = fn
	}
}

// Mount creates a registry and routes "/_c/*" on r to it.
func Mount(r chi.Router, opts ...Option) *checkgroup.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("cgchi: failed to generate random key: %v", err))
		}
	}

	reg := checkgroup.NewRegistry(key)
	reg.OnAction = o.onAction
	r.Handle("/_c/*", reg.Handler())
	return reg
}
