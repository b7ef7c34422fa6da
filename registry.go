package checkgroup

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// ActionReport describes one handled component request.
type ActionReport struct {
	Group  string
	Action string
	Valid  bool
	Events int
}

// Registry manages component registration and routing.
type Registry struct {
	mu         sync.RWMutex
	mux        *http.ServeMux
	encoder    *Encoder
	components map[string]*Component // map[prefix]component

	// OnError is called when a component request fails.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)

	// OnAction is called after every successfully applied action.
	OnAction func(ActionReport)
}

// NewRegistry creates a new component registry with the given encryption key.
func NewRegistry(encryptionKey []byte) *Registry {
	enc, err := NewEncoder(encryptionKey)
	if err != nil {
		panic(fmt.Sprintf("checkgroup: failed to create encoder: %v", err))
	}

	return &Registry{
		mux:        http.NewServeMux(),
		encoder:    enc,
		components: make(map[string]*Component),
		OnError:    DefaultErrorHandler,
	}
}

// DefaultErrorHandler maps component errors onto status codes.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case IsBadRequest(err):
		http.Error(w, "Bad request", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// Encoder returns the registry's encoder (used by components).
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers components with the registry.
// Panics on a prefix collision.
func (reg *Registry) Add(components ...*Component) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, comp := range components {
		prefix := comp.Prefix()
		if _, exists := reg.components[prefix]; exists {
			panic(fmt.Sprintf("checkgroup: prefix collision for %q", prefix))
		}
		comp.SetEncoder(reg.encoder)
		comp.registry = reg
		reg.components[prefix] = comp

		reg.mux.Handle(prefix+"/", comp)
	}
}

// Get returns the component registered under prefix.
func (reg *Registry) Get(prefix string) (*Component, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	comp, ok := reg.components[prefix]
	return comp, ok
}

// Components returns the registered components ordered by name.
func (reg *Registry) Components() []*Component {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Component, 0, len(reg.components))
	for _, comp := range reg.components {
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].Prefix() < out[j].Prefix()
	})
	return out
}

// Handler returns the HTTP handler for component routes.
// Mount this at "/_c/" in your application.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if r.Header.Get("HX-Request") != "true" {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}

		reg.mux.ServeHTTP(w, r)
	})
}
