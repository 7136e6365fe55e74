package provider

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]ProviderFactory)
)

// Register adds a payment provider factory under the given name. Providers
// register themselves from an init function in their own package.
func Register(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Get retrieves a payment provider factory by name
func Get(name string) (ProviderFactory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("payment provider '%s' is not registered", name)
	}

	return factory, nil
}

// CreateProvider creates a fresh, uninitialized instance of a registered provider
func CreateProvider(name string) (PaymentProvider, error) {
	factory, err := Get(name)
	if err != nil {
		return nil, err
	}

	return factory(), nil
}

// RegisteredProviders returns the names of all registered providers, sorted
func RegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
