package llm

import "context"

// Client is a single LLM backend. Implementations translate the
// normalized request into provider wire calls and classify failures
// as *APIError.
type Client interface {
	Provider() Provider
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// Registry holds the configured clients keyed by provider id. It is built
// once at startup from config and injected into the engine; adding a
// provider means registering a client, not editing branch logic.
type Registry struct {
	clients map[Provider]Client
}

// NewRegistry builds a registry from the given clients.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[Provider]Client)}
	for _, c := range clients {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the client for its provider.
func (r *Registry) Register(c Client) {
	r.clients[c.Provider()] = c
}

// Get returns the client for a provider, if configured.
func (r *Registry) Get(p Provider) (Client, bool) {
	c, ok := r.clients[p]
	return c, ok
}

// Has reports whether a provider is configured.
func (r *Registry) Has(p Provider) bool {
	_, ok := r.clients[p]
	return ok
}

// Providers lists the configured provider ids.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	return out
}

// Len returns the number of configured providers.
func (r *Registry) Len() int {
	return len(r.clients)
}
