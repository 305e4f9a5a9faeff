package provider

import "fmt"

// DuplicateProviderError is returned when a name is registered twice.
type DuplicateProviderError struct {
	Capability Capability
	Name       string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("%s provider '%s' is already registered", e.Capability, e.Name)
}

// ProviderNotFoundError is returned when a name is not registered.
type ProviderNotFoundError struct {
	Capability Capability
	Name       string
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("%s provider '%s' not found", e.Capability, e.Name)
}

// ConfigNotFoundForNameError is returned when a provider has no configuration
// section.
type ConfigNotFoundForNameError struct {
	Capability Capability
	Name       string
}

func (e *ConfigNotFoundForNameError) Error() string {
	return fmt.Sprintf("no configuration found for %s provider '%s'", e.Capability, e.Name)
}

// ConfigFieldNotFoundError is returned when a provider configuration lacks a
// field.
type ConfigFieldNotFoundError struct {
	Capability Capability
	Name       string
	Field      string
}

func (e *ConfigFieldNotFoundError) Error() string {
	return fmt.Sprintf("configuration field '%s' not found for %s provider '%s'", e.Field, e.Capability, e.Name)
}
