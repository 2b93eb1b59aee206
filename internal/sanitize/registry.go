package sanitize

import (
	"sort"
	"strings"
)

// Registry maps source names to sanitizers. Lookups are case-insensitive and
// fall back to the default sanitizer.
type Registry struct {
	fallback *Sanitizer
	sources  map[string]*Sanitizer
}

func NewRegistry(fallback *Sanitizer, sources map[string]*Sanitizer) *Registry {
	if fallback == nil {
		fallback = Default()
	}
	byName := make(map[string]*Sanitizer, len(sources))
	for name, s := range sources {
		if s == nil {
			continue
		}
		byName[strings.ToLower(strings.TrimSpace(name))] = s
	}
	return &Registry{fallback: fallback, sources: byName}
}

func (r *Registry) For(source string) *Sanitizer {
	_, s := r.Resolve(source)
	return s
}

// Resolve returns the configured source name that source maps to, or "" when
// it falls back to the default sanitizer.
func (r *Registry) Resolve(source string) (string, *Sanitizer) {
	if r == nil {
		return "", Default()
	}
	name := strings.ToLower(strings.TrimSpace(source))
	if s, ok := r.sources[name]; ok {
		return name, s
	}
	return "", r.fallback
}

func (r *Registry) Default() *Sanitizer {
	if r == nil {
		return Default()
	}
	return r.fallback
}

func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
