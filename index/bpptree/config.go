package bpptree

import "kvindex/bpptree/index"

// fullnessGate is the leaf-fullness threshold the growth policy requires
// alongside a high compaction rate before it raises capacity. Kept as a
// package constant rather than a Config field since it is not meant to be
// tuned per tree.
const fullnessGate = 0.8

// Config holds the parameters recognized when constructing a Tree.
// Zero-valued optional fields are filled with their documented defaults by
// New.
type Config struct {
	// Order is the maximum children per internal node. Must be >= 3.
	Order int

	// InitialLeafCapacity is the starting slot count for every new leaf.
	// Must be >= 4.
	InitialLeafCapacity int

	// TrainingInterval is the number of insertions between model retrains.
	// Defaults to 10 when zero.
	TrainingInterval int

	// ProbeRadius is the predictor's probe window half-width. Defaults to
	// 3 when zero.
	ProbeRadius int

	// GrowthTrigger is the compaction-rate threshold above which a leaf's
	// capacity grows. Defaults to 0.30 when zero.
	GrowthTrigger float64

	// GrowthFactor is the capacity multiplier applied on growth. Defaults
	// to 1.5 when zero.
	GrowthFactor float64
}

func (c Config) withDefaults() Config {
	if c.TrainingInterval == 0 {
		c.TrainingInterval = 10
	}
	if c.ProbeRadius == 0 {
		c.ProbeRadius = 3
	}
	if c.GrowthTrigger == 0 {
		c.GrowthTrigger = 0.30
	}
	if c.GrowthFactor == 0 {
		c.GrowthFactor = 1.5
	}
	return c
}

func (c Config) validate() error {
	if c.Order < 3 {
		return index.NewConfigurationError("Order", c.Order, "must be >= 3")
	}
	if c.InitialLeafCapacity < 4 {
		return index.NewConfigurationError("InitialLeafCapacity", c.InitialLeafCapacity, "must be >= 4")
	}
	if c.TrainingInterval < 1 {
		return index.NewConfigurationError("TrainingInterval", c.TrainingInterval, "must be >= 1")
	}
	if c.ProbeRadius < 0 {
		return index.NewConfigurationError("ProbeRadius", c.ProbeRadius, "must be >= 0")
	}
	if c.GrowthTrigger <= 0 || c.GrowthTrigger > 1 {
		return index.NewConfigurationError("GrowthTrigger", c.GrowthTrigger, "must be in (0, 1]")
	}
	if c.GrowthFactor <= 1 {
		return index.NewConfigurationError("GrowthFactor", c.GrowthFactor, "must be > 1")
	}
	return nil
}
