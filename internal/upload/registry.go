package upload

import (
	"fmt"
	"slices"
	"strings"
)

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

var registry = make(map[string]ProviderFactory)

// RegisterProvider registers a new upload provider
func RegisterProvider(name string, factory ProviderFactory) {
	registry[name] = factory
}

// Names lists registered providers in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

func init() {
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
}
