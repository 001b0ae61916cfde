package placement

import (
	"fmt"
	"math"
)

// WeightSet holds the weight of each placement criterion. All criteria are
// costs, so every weight must be negative; the magnitude is the importance.
type WeightSet struct {
	AverageCPU    float64 `json:"average_cpu" yaml:"average_cpu"`
	HighestCPU    float64 `json:"highest_cpu" yaml:"highest_cpu"`
	AverageMemory float64 `json:"average_memory" yaml:"average_memory"`
	HighestMemory float64 `json:"highest_memory" yaml:"highest_memory"`
}

// DefaultWeights favours memory over CPU and peaks over averages.
func DefaultWeights() WeightSet {
	return WeightSet{
		AverageCPU:    -1.0,
		HighestCPU:    -2.0,
		AverageMemory: -5.0,
		HighestMemory: -10.0,
	}
}

// Validate checks that every weight is a finite negative number.
func (w WeightSet) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"average_cpu", w.AverageCPU},
		{"highest_cpu", w.HighestCPU},
		{"average_memory", w.AverageMemory},
		{"highest_memory", w.HighestMemory},
	} {
		if !(f.value < 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("weight %s is %v, must be a finite negative number", f.name, f.value)
		}
	}
	return nil
}
