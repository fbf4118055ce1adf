package catalog

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/opacctl/internal/logging"
)

// Origin says where a loaded catalog came from.
type Origin string

const (
	OriginSeed   Origin = "seed"
	OriginFile   Origin = "file"
	OriginCache  Origin = "cache"
	OriginRemote Origin = "remote"
)

// Fetcher retrieves the catalog from the library API.
type Fetcher interface {
	ListBooks(ctx context.Context) ([]Book, error)
}

// Cache persists the last catalog seen by this client.
type Cache interface {
	CachedBooks() []Book
	CacheBooks(books []Book) error
}

// Manager resolves the session catalog: local data first (cache, then a
// configured file, then the built-in seed), replaced by the remote listing
// when the API answers with a non-empty one.
type Manager struct {
	remote Fetcher
	cache  Cache
	path   string
}

// NewManager creates a catalog manager. remote and cache may be nil; path
// is an optional catalog YAML file that takes precedence over the seed.
func NewManager(remote Fetcher, cache Cache, path string) *Manager {
	return &Manager{remote: remote, cache: cache, path: path}
}

// Local returns the best catalog available without touching the network.
func (m *Manager) Local() ([]Book, Origin, error) {
	if m.cache != nil {
		if books := m.cache.CachedBooks(); len(books) > 0 {
			return books, OriginCache, nil
		}
	}
	if m.path != "" {
		books, err := Load(m.path)
		if err != nil {
			return nil, "", err
		}
		if len(books) > 0 {
			return books, OriginFile, nil
		}
	}
	return Seed(), OriginSeed, nil
}

// Load returns the local catalog, then tries the remote listing. A remote
// failure is logged and the local catalog is kept.
func (m *Manager) Load(ctx context.Context) ([]Book, Origin, error) {
	books, origin, err := m.Local()
	if err != nil {
		return nil, "", err
	}
	if m.remote == nil {
		return books, origin, nil
	}

	log := logging.With("catalog")
	remote, err := m.remote.ListBooks(ctx)
	if err != nil {
		log.Warn().Err(err).Str("fallback", string(origin)).Msg("remote catalog unavailable, using local data")
		return books, origin, nil
	}
	if len(remote) == 0 {
		log.Debug().Msg("remote catalog empty, keeping local data")
		return books, origin, nil
	}

	if m.cache != nil {
		if err := m.cache.CacheBooks(remote); err != nil {
			log.Warn().Err(err).Msg("caching remote catalog")
		}
	}
	log.Debug().Int("books", len(remote)).Msg("catalog loaded from API")
	return remote, OriginRemote, nil
}

// Refresh fetches the remote catalog and caches it, failing loudly.
func (m *Manager) Refresh(ctx context.Context) ([]Book, error) {
	if m.remote == nil {
		return nil, fmt.Errorf("no catalog API configured")
	}
	books, err := m.remote.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	if m.cache != nil {
		if err := m.cache.CacheBooks(books); err != nil {
			return nil, fmt.Errorf("caching catalog: %w", err)
		}
	}
	return books, nil
}
