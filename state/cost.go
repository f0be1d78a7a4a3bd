package state

import (
	"fmt"
	"math"
)

// CostFunc computes the cost of a direct link from its neighbor state.
// Returned costs must be >= 1.0 for usable links, +Inf for unusable ones.
type CostFunc func(n *NeighborInfo) float64

// CompositeCost is the canonical cost model: a weighted blend of link
// quality, signal strength and available bandwidth, floored at 1.
func CompositeCost(n *NeighborInfo) float64 {
	c := 0.5*(1/n.Quality) + 0.3*(math.Abs(n.SignalStrength)/100) + 0.2*(1/(n.BandwidthAvailable+1))
	return math.Max(1.0, c)
}

// QualityCost is the simpler 1/quality model kept for comparison runs.
func QualityCost(n *NeighborInfo) float64 {
	return math.Max(1.0, 1/n.Quality)
}

// HopCost charges every link equally.
func HopCost(n *NeighborInfo) float64 {
	return 1.0
}

func CostByName(name string) (CostFunc, error) {
	switch name {
	case "", "composite":
		return CompositeCost, nil
	case "quality":
		return QualityCost, nil
	case "hop":
		return HopCost, nil
	}
	return nil, fmt.Errorf("%s is not a known cost function", name)
}
