package state

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type NodeCfg struct {
	Id NodeId
}

// CentralCfg is the mesh-wide configuration shared by every agent.
type CentralCfg struct {
	Nodes []NodeCfg `yaml:",omitempty"`

	KHops            int           `yaml:"k_hops,omitempty"`
	UpdateInterval   time.Duration `yaml:"update_interval,omitempty"`
	LivenessInterval time.Duration `yaml:"liveness_interval,omitempty"`
	GcInterval       time.Duration `yaml:"gc_interval,omitempty"`
	MaxRouteAge      time.Duration `yaml:"max_route_age,omitempty"`
	CostFunction     string        `yaml:"cost_function,omitempty"`

	TopologyPath string `yaml:"topology_path,omitempty"`
	LogPath      string `yaml:"log_path,omitempty"`
}

func (c *CentralCfg) ApplyDefaults() {
	if c.KHops == 0 {
		c.KHops = DefaultKHops
	}
	if c.UpdateInterval == 0 {
		c.UpdateInterval = RouteUpdateDelay
	}
	if c.LivenessInterval == 0 {
		c.LivenessInterval = LivenessDelay
	}
	if c.GcInterval == 0 {
		c.GcInterval = RouteGcDelay
	}
	if c.MaxRouteAge == 0 {
		c.MaxRouteAge = 3 * c.UpdateInterval
	}
}

func (c *CentralCfg) GetNode(id NodeId) *NodeCfg {
	for i := range c.Nodes {
		if c.Nodes[i].Id == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

func ReadCentralConfig(path string) (*CentralCfg, error) {
	var cfg CentralCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	err = CentralConfigValidator(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
