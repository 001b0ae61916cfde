package placement

import (
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

var (
	ErrInvalidNode    = errors.New("placement: invalid node")
	ErrInvalidService = errors.New("placement: invalid service")
)

// IsInvalidInput reports whether err stems from caller-supplied nodes, service
// limits or engine input rather than an internal failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidNode) ||
		errors.Is(err, ErrInvalidService) ||
		topsis.IsInputError(err)
}

// NodeUsage is a static usage snapshot of a node.
type NodeUsage struct {
	Name string `json:"name" yaml:"name"`
	// CPU is the CPU utilization in CPUs. It can exceed MaxCPU when overcommitted.
	CPU    float64 `json:"cpu" yaml:"cpu"`
	MaxCPU int     `json:"maxcpu" yaml:"maxcpu"`
	// Mem is the used memory in bytes. It can exceed MaxMem when overcommitted.
	Mem    int64 `json:"mem" yaml:"mem"`
	MaxMem int64 `json:"maxmem" yaml:"maxmem"`
}

// ServiceUsage is the static resource footprint of a service.
type ServiceUsage struct {
	// MaxCPU is the CPU limit. Zero means unlimited.
	MaxCPU float64 `json:"maxcpu" yaml:"maxcpu"`
	MaxMem int64   `json:"maxmem" yaml:"maxmem"`
}

func (n NodeUsage) Validate() error {
	switch {
	case n.Name == "":
		return fmt.Errorf("%w: name required", ErrInvalidNode)
	case n.MaxCPU <= 0:
		return fmt.Errorf("%w: %s has no CPU capacity", ErrInvalidNode, n.Name)
	case n.MaxMem <= 0:
		return fmt.Errorf("%w: %s has no memory capacity", ErrInvalidNode, n.Name)
	case n.CPU < 0 || math.IsNaN(n.CPU) || math.IsInf(n.CPU, 0):
		return fmt.Errorf("%w: %s has CPU usage %v", ErrInvalidNode, n.Name, n.CPU)
	case n.Mem < 0:
		return fmt.Errorf("%w: %s has memory usage %d", ErrInvalidNode, n.Name, n.Mem)
	}
	return nil
}

func (s ServiceUsage) Validate() error {
	if s.MaxCPU < 0 || math.IsNaN(s.MaxCPU) || math.IsInf(s.MaxCPU, 0) {
		return fmt.Errorf("%w: CPU limit %v", ErrInvalidService, s.MaxCPU)
	}
	if s.MaxMem < 0 {
		return fmt.Errorf("%w: memory limit %d", ErrInvalidService, s.MaxMem)
	}
	return nil
}

// AddServiceUsage adds the footprint of svc to the node's usage.
func (n *NodeUsage) AddServiceUsage(svc ServiceUsage) {
	n.CPU = addCPUUsage(n.CPU, float64(n.MaxCPU), svc.MaxCPU)
	n.Mem += svc.MaxMem
}

// addCPUUsage returns the new CPU usage. An unlimited (zero) limit is
// assumed to take the whole node, so max is added.
func addCPUUsage(old, max, add float64) float64 {
	if add == 0 {
		return old + max
	}
	return old + add
}
