package media

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/services"
)

// ReferenceCounter reports how many timeline elements point at an asset.
type ReferenceCounter interface {
	References(mediaID string) int
}

// Registry stores imported assets in import order.
type Registry struct {
	mu     sync.RWMutex
	assets map[string]Asset
	order  []string
	logger *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		assets: make(map[string]Asset),
		logger: logging.NewComponentLogger(logger, "media"),
	}
}

// Add registers a validated asset. IDs must be unique. The duration is
// rounded to the microsecond resolution the timeline works in.
func (r *Registry) Add(asset Asset) (Asset, error) {
	asset.Duration = asset.Duration.Round(time.Microsecond)
	if err := asset.Validate(); err != nil {
		return Asset{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.assets[asset.ID]; exists {
		return Asset{}, services.Wrap(services.ErrInvalidAsset, "media", "add", fmt.Sprintf("duplicate asset id %s", asset.ID), nil)
	}
	r.assets[asset.ID] = asset
	r.order = append(r.order, asset.ID)
	r.logger.Debug("asset registered",
		logging.String(logging.FieldMediaID, asset.ID),
		logging.String("kind", string(asset.Kind)),
		logging.Seconds("duration", asset.Duration),
	)
	return asset, nil
}

// Get returns the asset or ErrAssetNotFound.
func (r *Registry) Get(id string) (Asset, error) {
	asset, ok := r.Lookup(id)
	if !ok {
		return Asset{}, services.Wrap(services.ErrAssetNotFound, "media", "get", fmt.Sprintf("asset %s", id), nil)
	}
	return asset, nil
}

// Lookup returns the asset when present.
func (r *Registry) Lookup(id string) (Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[id]
	return asset, ok
}

// List returns assets in import order.
func (r *Registry) List() []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.assets[id])
	}
	return out
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Remove forgets an asset. It is rejected with ErrAssetInUse while refs still
// counts a clip or overlay pointing at it.
func (r *Registry) Remove(id string, refs ReferenceCounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return services.Wrap(services.ErrAssetNotFound, "media", "remove", fmt.Sprintf("asset %s", id), nil)
	}
	if refs != nil {
		if n := refs.References(id); n > 0 {
			logging.WarnWithContext(r.logger, "asset removal rejected", "asset_in_use",
				logging.String(logging.FieldMediaID, id),
				logging.Int("references", n),
				logging.String(logging.FieldErrorHint, "delete the clips and overlays that use this asset first"),
				logging.String(logging.FieldImpact, "asset kept in library"),
			)
			return services.Wrap(services.ErrAssetInUse, "media", "remove", fmt.Sprintf("asset %s referenced %d times", id, n), nil)
		}
	}
	delete(r.assets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Debug("asset removed", logging.String(logging.FieldMediaID, id))
	return nil
}
