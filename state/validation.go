package state

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile("^[0-9A-Za-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid node id, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func QualityValidator(q float64) error {
	if q < 0 || q > 1 {
		return fmt.Errorf("link quality %v is outside [0, 1]", q)
	}
	return nil
}

func CentralConfigValidator(cfg *CentralCfg) error {
	seen := make(map[NodeId]bool)
	for _, node := range cfg.Nodes {
		if err := NameValidator(string(node.Id)); err != nil {
			return err
		}
		if seen[node.Id] {
			return fmt.Errorf("duplicate node id: %s", node.Id)
		}
		seen[node.Id] = true
	}
	if cfg.KHops < 1 {
		return fmt.Errorf("k_hops must be at least 1, got %d", cfg.KHops)
	}
	if cfg.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive")
	}
	if cfg.LivenessInterval <= 0 {
		return fmt.Errorf("liveness_interval must be positive")
	}
	if cfg.GcInterval <= 0 {
		return fmt.Errorf("gc_interval must be positive")
	}
	if cfg.MaxRouteAge <= 0 {
		return fmt.Errorf("max_route_age must be positive")
	}
	if _, err := CostByName(cfg.CostFunction); err != nil {
		return err
	}
	return nil
}
