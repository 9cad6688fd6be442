package adapter

import (
	"github.com/valpere/promptadapt/internal/culture"
)

// Registry resolves a language code to the adapter bound to that language's
// rule table. Registration happens at startup; the registry is read-only
// afterwards.
type Registry struct {
	set      *culture.Set
	adapters map[string]*Adapter
}

// NewRegistry builds one adapter per table in the set. The options (shared
// generator, timeout, language checker) apply to every adapter.
func NewRegistry(set *culture.Set, opts ...Option) *Registry {
	r := &Registry{
		set:      set,
		adapters: make(map[string]*Adapter),
	}
	for _, t := range set.Tables() {
		r.adapters[t.Code] = New(t, opts...)
	}
	return r
}

// Resolve returns the adapter for code, or *culture.UnsupportedLanguageError
// listing the known codes.
func (r *Registry) Resolve(code string) (*Adapter, error) {
	t, err := r.set.Table(code)
	if err != nil {
		return nil, err
	}
	return r.adapters[t.Code], nil
}

// Codes returns the registered language codes in sorted order.
func (r *Registry) Codes() []string {
	return r.set.Codes()
}
