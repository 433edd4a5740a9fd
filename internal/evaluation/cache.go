package evaluation

import (
	"errors"
	"strings"
	"time"

	"interviewcoach/internal/ai"
	"interviewcoach/internal/config"
	"interviewcoach/internal/stt"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Clients is the provider pair bound to one credential
type Clients struct {
	Transcriber stt.Provider
	Scorer      ai.Scorer
}

// ClientFactory builds the clients for a credential. An empty credential
// means the server-configured keys.
type ClientFactory func(credential string) (Clients, error)

// NewClientFactory builds clients from the configured providers.
// A missing OpenAI key comes back as ErrMissingCredential. Other missing
// keys are server misconfiguration and pass through unchanged.
func NewClientFactory(cfg *config.Config, logger *zap.Logger) ClientFactory {
	return func(credential string) (Clients, error) {
		transcriber, err := stt.NewProvider(cfg, credential, logger)
		if err != nil {
			return Clients{}, missingCredential(err)
		}
		scorer, err := ai.NewScorer(cfg, credential, logger)
		if err != nil {
			return Clients{}, missingCredential(err)
		}
		return Clients{Transcriber: transcriber, Scorer: scorer}, nil
	}
}

// usesCallerCredential reports whether a provider name takes the caller's token
func usesCallerCredential(provider string) bool {
	provider = strings.ToLower(provider)
	return provider == "" || provider == "openai"
}

// CredentialKey returns the cache key function for cfg. When neither
// provider takes the caller's token every request shares one entry.
func CredentialKey(cfg *config.Config) func(credential string) string {
	if usesCallerCredential(cfg.STTProvider) || usesCallerCredential(cfg.ScoringProvider) {
		return func(credential string) string { return credential }
	}
	return func(string) string { return "" }
}

func missingCredential(err error) error {
	if errors.Is(err, stt.ErrMissingAPIKey) || errors.Is(err, ai.ErrMissingAPIKey) {
		return errors.Join(ErrMissingCredential, err)
	}
	return err
}

// ClientCache keeps recently used clients per credential.
// Safe for concurrent use; failed constructions are not cached.
type ClientCache struct {
	clients *expirable.LRU[string, Clients]
	group   singleflight.Group
	factory ClientFactory
	key     func(credential string) string
}

type CacheOption func(c *ClientCache)

// WithKey sets how credentials map to cache entries. Entries are keyed by
// the raw credential by default.
func WithKey(key func(credential string) string) CacheOption {
	return func(c *ClientCache) {
		c.key = key
	}
}

func NewClientCache(size int, ttl time.Duration, factory ClientFactory, opts ...CacheOption) *ClientCache {
	c := &ClientCache{
		clients: expirable.NewLRU[string, Clients](size, nil, ttl),
		factory: factory,
		key:     func(credential string) string { return credential },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the clients for credential, building them on first use
func (c *ClientCache) Get(credential string) (Clients, error) {
	key := c.key(credential)
	if cl, ok := c.clients.Get(key); ok {
		return cl, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if cl, ok := c.clients.Get(key); ok {
			return cl, nil
		}
		cl, err := c.factory(credential)
		if err != nil {
			return Clients{}, err
		}
		c.clients.Add(key, cl)
		return cl, nil
	})
	if err != nil {
		return Clients{}, err
	}
	return v.(Clients), nil
}

// Len reports how many credentials currently have live clients
func (c *ClientCache) Len() int {
	return c.clients.Len()
}
