package collidesim

import (
	"fmt"
	"runtime"
)

// Config holds the construction-time parameters for a World. Zero-value
// fields are filled in by DefaultConfig's defaults where that makes sense;
// NewWorld calls Validate and returns a wrapped sentinel error for anything
// it can't make sense of.
type Config struct {
	// BoxMin, BoxMax bound the simulation arena. Segments are reflected when
	// they strike one of these walls. Default: {0.5, 0.5} and {1.0, 1.0}.
	BoxMin, BoxMax Vec2

	// TimeStep is dt, in box-coordinates per step. Default: 0.5.
	TimeStep float64

	// Capacity is an initial capacity hint for the segment pool. Must be
	// positive.
	Capacity int

	// QuadtreeMaxObjects is N_MAX: the per-node segment count above which a
	// node subdivides. Default: 64.
	QuadtreeMaxObjects int

	// QuadtreeMaxDepth caps quadtree recursion to bound worst-case cost when
	// many segments straddle node boundaries. Default: 8.
	QuadtreeMaxDepth int

	// ParallelThreshold is the ancestor-set size above which quadtree
	// descent forks across the worker pool rather than recursing serially.
	// Default: 32.
	ParallelThreshold int

	// Workers bounds the number of goroutines used for quadtree descent and
	// data-parallel advance/wall phases. Default: runtime.GOMAXPROCS(0).
	Workers int
}

// DefaultConfig returns a Config with every tunable at its design default and
// Capacity set to capacity. Capacity must still be positive.
func DefaultConfig(capacity int) Config {
	return Config{
		BoxMin:             Vec2{X: 0.5, Y: 0.5},
		BoxMax:             Vec2{X: 1.0, Y: 1.0},
		TimeStep:           0.5,
		Capacity:           capacity,
		QuadtreeMaxObjects: 64,
		QuadtreeMaxDepth:   8,
		ParallelThreshold:  32,
		Workers:            runtime.GOMAXPROCS(0),
	}
}

// Validate checks cfg for the fatal misconfigurations NewWorld refuses to
// build from, filling in any zero-valued tunables with their design
// defaults first (so callers may build a Config{Capacity: n, ...} by hand
// without restating every knob).
func (cfg *Config) Validate() error {
	if cfg.Capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, cfg.Capacity)
	}
	if cfg.BoxMin == (Vec2{}) && cfg.BoxMax == (Vec2{}) {
		def := DefaultConfig(cfg.Capacity)
		cfg.BoxMin, cfg.BoxMax = def.BoxMin, def.BoxMax
	}
	if cfg.BoxMin.X >= cfg.BoxMax.X || cfg.BoxMin.Y >= cfg.BoxMax.Y {
		return fmt.Errorf("%w: min=%v max=%v", ErrInvalidBox, cfg.BoxMin, cfg.BoxMax)
	}
	if cfg.TimeStep == 0 {
		cfg.TimeStep = 0.5
	}
	if cfg.TimeStep < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeStep, cfg.TimeStep)
	}
	if cfg.QuadtreeMaxObjects <= 0 {
		cfg.QuadtreeMaxObjects = 64
	}
	if cfg.QuadtreeMaxDepth <= 0 {
		cfg.QuadtreeMaxDepth = 8
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = 32
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
