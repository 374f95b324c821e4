package registry

import (
	"fmt"
	"net"
	"time"

	"ai-coder/config"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/consul/api"
)

type ConsulRegistry struct {
	client *api.Client
	config *config.ConsulConfig
}

type ServiceConfig struct {
	ID          string
	Name        string
	Tags        []string
	Address     string
	Port        int
	HealthCheck *HealthCheck
}

type HealthCheck struct {
	HTTP                           string
	Interval                       time.Duration
	Timeout                        time.Duration
	DeregisterCriticalServiceAfter time.Duration
}

type ServiceInstance struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
}

func (s *ServiceInstance) GetURL() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(s.Address, fmt.Sprint(s.Port)))
}

func NewConsulRegistry(cfg *config.ConsulConfig) (*ConsulRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Address
	consulConfig.Scheme = cfg.Scheme
	consulConfig.Datacenter = cfg.Datacenter

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	if _, err = client.Status().Leader(); err != nil {
		return nil, fmt.Errorf("connect consul: %w", err)
	}
	log.Info("consul connected", "address", cfg.Address)
	return &ConsulRegistry{
		client: client,
		config: cfg,
	}, nil
}

func (r *ConsulRegistry) RegisterService(cfg *ServiceConfig) error {
	registration := &api.AgentServiceRegistration{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Tags:    cfg.Tags,
		Address: cfg.Address,
		Port:    cfg.Port,
	}
	if cfg.HealthCheck != nil {
		registration.Check = &api.AgentServiceCheck{
			HTTP:                           cfg.HealthCheck.HTTP,
			Interval:                       cfg.HealthCheck.Interval.String(),
			Timeout:                        cfg.HealthCheck.Timeout.String(),
			DeregisterCriticalServiceAfter: cfg.HealthCheck.DeregisterCriticalServiceAfter.String(),
		}
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register service %s: %w", cfg.Name, err)
	}
	log.Info("service registered", "name", cfg.Name, "id", cfg.ID)
	return nil
}

func (r *ConsulRegistry) DeregisterService(serviceID string) error {
	if err := r.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("deregister service %s: %w", serviceID, err)
	}
	log.Info("service deregistered", "id", serviceID)
	return nil
}

// DiscoverService returns the passing instances of serviceName. Instances registered
// without an address inherit their node's address.
func (r *ConsulRegistry) DiscoverService(serviceName string) ([]*ServiceInstance, error) {
	entries, _, err := r.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, fmt.Errorf("discover service %s: %w", serviceName, err)
	}

	instances := make([]*ServiceInstance, 0, len(entries))
	for _, entry := range entries {
		addr := entry.Service.Address
		if addr == "" && entry.Node != nil {
			addr = entry.Node.Address
		}
		instances = append(instances, &ServiceInstance{
			ID:      entry.Service.ID,
			Name:    entry.Service.Service,
			Address: addr,
			Port:    entry.Service.Port,
			Tags:    entry.Service.Tags,
		})
	}
	return instances, nil
}

func GetLocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func GenerateServiceID(serviceName, ip string, port int) string {
	return fmt.Sprintf("%s-%s-%d", serviceName, ip, port)
}
