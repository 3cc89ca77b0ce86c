package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ModuleConfig carries the type name and raw configuration of a pluggable
// component. Each plugin decodes the raw map into its own config struct.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory constructs an implementation of T from a raw configuration map.
// Capabilities whose constructors need extra dependencies define their own
// constructor type instead.
type Factory[T any] func(conf map[string]any) (T, error)

// ConflictError reports a duplicate identifier within a capability namespace.
type ConflictError struct {
	Capability string
	Name       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("plugin %q already registered for capability %s", e.Name, e.Capability)
}

// UnknownError reports resolution of an identifier that was never registered.
type UnknownError struct {
	Capability string
	Name       string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown %s plugin %q", e.Capability, e.Name)
}

// Registry maps identifiers to constructors for one capability namespace.
// Registration only records the constructor; it never runs simulation logic.
type Registry[C any] struct {
	capability string
	mu         sync.RWMutex
	entries    map[string]C
}

// NewRegistry returns an empty registry for the named capability.
func NewRegistry[C any](capability string) *Registry[C] {
	return &Registry[C]{capability: capability, entries: make(map[string]C)}
}

// Register adds a constructor under the given identifier. A duplicate
// identifier is a ConflictError, never a silent overwrite.
func (r *Registry[C]) Register(name string, ctor C) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return &ConflictError{Capability: r.capability, Name: name}
	}
	r.entries[name] = ctor
	return nil
}

// MustRegister registers and panics on conflict. Intended for init-time
// builtin registration, where a conflict is a programming error.
func (r *Registry[C]) MustRegister(name string, ctor C) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Resolve returns the constructor registered under name.
func (r *Registry[C]) Resolve(name string) (C, error) {
	r.mu.RLock()
	ctor, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		var zero C
		return zero, &UnknownError{Capability: r.capability, Name: name}
	}
	return ctor, nil
}

// Names returns the registered identifiers, sorted.
func (r *Registry[C]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create resolves and constructs a component whose constructor is a plain
// Factory over its raw configuration.
func Create[T any](r *Registry[Factory[T]], cfg ModuleConfig) (T, error) {
	f, err := r.Resolve(cfg.Type)
	if err != nil {
		var zero T
		return zero, err
	}
	return f(cfg.Conf)
}

// Decode fills out the provided struct from a raw config map using json tags.
func Decode(conf map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(conf)
}
