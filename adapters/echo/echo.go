// Package cgecho provides Echo framework integration for checkbox group
// components.
//
// Mount components onto an Echo instance:
//
//	e := echo.New()
//	reg := cgecho.Mount(e)
//	reg.Add(checkgroup.NewComponent(def))
//
// Or share middleware through a group. Component routes are absolute, so
// the group must not add a path prefix:
//
//	g := e.Group("", authMiddleware)
//	reg := cgecho.MountGroup(g)
package cgecho

import (
	"crypto/rand"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/checkgroup"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key      []byte
	onAction func(checkgroup.ActionReport)
}

// WithKey sets the props key for the registry.
// The key should be at least 32 bytes of cryptographically random data.
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

// Mount creates a registry and mounts the component handler on an Echo instance.
func Mount(e *echo.Echo, opts ...Option) *checkgroup.Registry {
	reg := newRegistry(opts)
	e.Any("/_c/*", echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and mounts the component handler on an Echo group.
func MountGroup(g *echo.Group, opts ...Option) *checkgroup.Registry {
	reg := newRegistry(opts)
	g.Any("/_c/*", echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) *checkgroup.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("cgecho: failed to generate random key: %v", err))
		}
	}

	reg := checkgroup.NewRegistry(key)
	reg.OnAction = o.onAction
	return reg
}

// Render writes a templ component to the Echo response.
//
//	func page(c echo.Context) error {
//	    return cgecho.Render(c, toppings.Render(toppings.Initial()))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
