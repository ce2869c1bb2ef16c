// Package service provides the provider registry the transport layer
// dispatches operations through.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fsgate/fsgate/internal/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, callCtx *types.Context) (*types.Result, error)
}

// Registry manages service discovery and execution. Registration happens
// at startup; execution is concurrent and lock-free afterwards.
type Registry struct {
	services sync.Map
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	r.services.Store(def.ID, provider)
	return nil
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered service definitions
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	return services
}

// Execute routes a tool call to its provider. Tool IDs are
// "service.operation"; anything that does not resolve to a registered
// provider fails with unknown_operation rather than an error, so the
// transport always has a well-formed result to serialize.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, callCtx *types.Context) (*types.Result, error) {
	serviceID, _, found := strings.Cut(toolID, ".")
	if !found {
		return types.Failure(types.KindUnknownOperation, fmt.Sprintf("invalid tool ID format: %s", toolID)), nil
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return types.Failure(types.KindUnknownOperation, fmt.Sprintf("unknown service: %s", serviceID)), nil
	}
	return provider.Execute(ctx, toolID, params, callCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}
