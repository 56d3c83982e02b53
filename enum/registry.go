package enum

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/exp/constraints"
)

// Registry stores descriptors by Go type and by name. Names cover the full
// documentation name plus any aliases, such as an OpenAPI component id.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*Descriptor
	byName map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*Descriptor),
		byName: make(map[string]*Descriptor),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by Register and friends.
func Default() *Registry {
	return defaultRegistry
}

// For builds a descriptor for T. An empty fullName falls back to PkgPath.Name.
func For[T constraints.Integer](fullName string, members ...Member) *Descriptor {
	var zero T
	t := reflect.TypeOf(zero)
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = FullNameOf(t)
	}
	return &Descriptor{
		Type:     t,
		FullName: fullName,
		Members:  append([]Member(nil), members...),
	}
}

// Register records T in the default registry.
// Usage: enum.Register[Status](enum.Value("Active", StatusActive), enum.Value("Inactive", StatusInactive))
func Register[T constraints.Integer](members ...Member) *Descriptor {
	return defaultRegistry.Add(For[T]("", members...))
}

// RegisterNamed records T in the default registry under an explicit documentation name.
func RegisterNamed[T constraints.Integer](fullName string, members ...Member) *Descriptor {
	return defaultRegistry.Add(For[T](fullName, members...))
}

// RegisterStringer records T using each value's String() as its member name.
func RegisterStringer[T interface {
	constraints.Integer
	fmt.Stringer
}](values ...T) *Descriptor {
	members := make([]Member, 0, len(values))
	for _, v := range values {
		members = append(members, Value(v.String(), v))
	}
	return Register[T](members...)
}

// Lookup finds the descriptor registered for t in the default registry.
func Lookup(t reflect.Type) (*Descriptor, bool) {
	return defaultRegistry.Lookup(t)
}

// IsEnum reports whether t is registered in the default registry.
func IsEnum(t reflect.Type) bool {
	return defaultRegistry.IsEnum(t)
}

// Extract returns the members registered for t in the default registry.
func Extract(t reflect.Type) ([]Member, error) {
	return defaultRegistry.Extract(t)
}

// Clear removes every registration from the default registry.
// Primarily useful for tests.
func Clear() {
	defaultRegistry.Clear()
}

// Add stores d and returns it. A descriptor without members is ignored and nil
// is returned. Later registrations for the same type or name replace earlier ones.
func (r *Registry) Add(d *Descriptor, aliases ...string) *Descriptor {
	if d == nil || len(d.Members) == 0 {
		return nil
	}
	d = d.clone()
	d.Type = indirect(d.Type)
	if d.Type != nil && !isInteger(d.Type) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Type != nil {
		r.byType[d.Type] = d
	}
	for _, name := range append([]string{d.FullName}, aliases...) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.byName[name] = d
	}
	return d
}

func (r *Registry) Lookup(t reflect.Type) (*Descriptor, bool) {
	t = indirect(t)
	if r == nil || t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[t]
	return d, ok
}

// LookupName finds a descriptor by full name or alias.
func (r *Registry) LookupName(name string) (*Descriptor, bool) {
	name = strings.TrimSpace(name)
	if r == nil || name == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

func (r *Registry) IsEnum(t reflect.Type) bool {
	_, ok := r.Lookup(t)
	return ok
}

// Extract returns a copy of the members of t in declaration order.
func (r *Registry) Extract(t reflect.Type) ([]Member, error) {
	d, ok := r.Lookup(t)
	if !ok {
		return nil, &NotEnumError{Type: t}
	}
	return append([]Member(nil), d.Members...), nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[*Descriptor]struct{})
	for _, d := range r.byType {
		seen[d] = struct{}{}
	}
	for _, d := range r.byName {
		seen[d] = struct{}{}
	}
	return len(seen)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType = make(map[reflect.Type]*Descriptor)
	r.byName = make(map[string]*Descriptor)
}
