// Package provider holds the name indexed registries for storage backends,
// database backends and compressors.
package provider

import (
	"database-manager/internal/config"
)

// Capability identifies what kind of provider a registry serves.
type Capability string

const (
	CapabilityStorage    Capability = "storage"
	CapabilityDatabase   Capability = "database"
	CapabilityCompressor Capability = "compressor"
)

// Descriptor is one registered provider.
type Descriptor[T any] struct {
	Name       string
	Capability Capability
	Config     config.Tree
	Instance   T
}

// Registry maps provider names to instances and their configuration. It is
// filled once at start-up and read only afterwards; it is not safe for
// concurrent registration.
type Registry[T any] struct {
	capability  Capability
	order       []string
	descriptors map[string]*Descriptor[T]
}

// NewRegistry returns an empty registry for the given capability.
func NewRegistry[T any](capability Capability) *Registry[T] {
	return &Registry[T]{
		capability:  capability,
		descriptors: make(map[string]*Descriptor[T]),
	}
}

// Capability returns the capability served by the registry.
func (r *Registry[T]) Capability() Capability {
	return r.capability
}

// Register adds a provider under name. Registering a name twice fails with
// *DuplicateProviderError and leaves the first registration in place.
func (r *Registry[T]) Register(name string, instance T, cfg config.Tree) error {
	if _, exists := r.descriptors[name]; exists {
		return &DuplicateProviderError{Capability: r.capability, Name: name}
	}

	r.descriptors[name] = &Descriptor[T]{
		Name:       name,
		Capability: r.capability,
		Config:     cfg.Clone(),
		Instance:   instance,
	}
	r.order = append(r.order, name)
	return nil
}

// ListAvailable returns the registered names in registration order.
func (r *Registry[T]) ListAvailable() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.descriptors[name]
	return ok
}

// Get returns the provider instance registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	d, ok := r.descriptors[name]
	if !ok {
		var zero T
		return zero, &ProviderNotFoundError{Capability: r.capability, Name: name}
	}
	return d.Instance, nil
}

// Descriptor returns a copy of the descriptor registered under name.
func (r *Registry[T]) Descriptor(name string) (Descriptor[T], error) {
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor[T]{}, &ProviderNotFoundError{Capability: r.capability, Name: name}
	}
	out := *d
	out.Config = d.Config.Clone()
	return out, nil
}

// GetConfig returns a field of the configuration section registered for name.
func (r *Registry[T]) GetConfig(name, field string) (interface{}, error) {
	d, ok := r.descriptors[name]
	if !ok || d.Config == nil {
		return nil, &ConfigNotFoundForNameError{Capability: r.capability, Name: name}
	}
	value, ok := d.Config[field]
	if !ok {
		return nil, &ConfigFieldNotFoundError{Capability: r.capability, Name: name, Field: field}
	}
	return value, nil
}

// GetString is GetConfig rendered as text.
func (r *Registry[T]) GetString(name, field string) (string, error) {
	value, err := r.GetConfig(name, field)
	if err != nil {
		return "", err
	}
	return config.Scalar(value), nil
}

// Each calls fn for every descriptor in registration order and stops at the
// first error.
func (r *Registry[T]) Each(fn func(Descriptor[T]) error) error {
	for _, name := range r.order {
		if err := fn(*r.descriptors[name]); err != nil {
			return err
		}
	}
	return nil
}
