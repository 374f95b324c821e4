package registry

import (
	"fmt"

	"ai-coder/config"

	"github.com/charmbracelet/log"
)

// ServiceManager owns one service registration for the lifetime of the process.
type ServiceManager struct {
	registry      *ConsulRegistry
	serviceConfig *ServiceConfig
}

func NewServiceManager(consulConfig *config.ConsulConfig, serviceConfig *ServiceConfig) (*ServiceManager, error) {
	consulRegistry, err := NewConsulRegistry(consulConfig)
	if err != nil {
		return nil, err
	}
	return &ServiceManager{
		registry:      consulRegistry,
		serviceConfig: serviceConfig,
	}, nil
}

func (sm *ServiceManager) Start() error {
	if err := sm.registry.RegisterService(sm.serviceConfig); err != nil {
		return fmt.Errorf("start service manager: %w", err)
	}
	return nil
}

func (sm *ServiceManager) Stop() {
	if err := sm.registry.DeregisterService(sm.serviceConfig.ID); err != nil {
		log.Error("service deregistration failed", "err", err)
	}
}

func (sm *ServiceManager) DiscoverService(serviceName string) ([]*ServiceInstance, error) {
	return sm.registry.DiscoverService(serviceName)
}
