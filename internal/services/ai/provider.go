package ai

import "context"

// Provider is the chat-completion transport used by the parse and weight
// services. Implementations return the model's raw text; callers own the
// defensive JSON extraction.
type Provider interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// ProviderFactory creates a provider from configuration
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available providers by name
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
