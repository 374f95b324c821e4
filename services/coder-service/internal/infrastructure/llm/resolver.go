package llm

import (
	"context"
	"strings"

	"ai-coder/infra/registry"

	"github.com/charmbracelet/log"
)

// Resolver yields the base URL of the inference service for one request.
type Resolver interface {
	BaseURL(ctx context.Context) string
}

// StaticResolver always returns the configured URL.
type StaticResolver string

func (s StaticResolver) BaseURL(context.Context) string {
	return strings.TrimRight(string(s), "/")
}

type Discoverer interface {
	DiscoverService(serviceName string) ([]*registry.ServiceInstance, error)
}

// DiscoveryResolver picks the first healthy instance of a Consul service and falls
// back to a fixed URL when the registry is unreachable or has no instance.
type DiscoveryResolver struct {
	discovery Discoverer
	service   string
	fallback  string
}

func NewDiscoveryResolver(discovery Discoverer, service, fallback string) *DiscoveryResolver {
	return &DiscoveryResolver{
		discovery: discovery,
		service:   service,
		fallback:  strings.TrimRight(fallback, "/"),
	}
}

func (r *DiscoveryResolver) BaseURL(ctx context.Context) string {
	logger := log.FromContext(ctx)
	instances, err := r.discovery.DiscoverService(r.service)
	if err != nil {
		logger.Warn("model service discovery failed, using fallback", "service", r.service, "err", err)
		return r.fallback
	}
	if len(instances) == 0 {
		logger.Warn("no healthy model service instance, using fallback", "service", r.service)
		return r.fallback
	}
	return instances[0].GetURL()
}
