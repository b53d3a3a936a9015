package solver

// config carries the tunables a Solver needs beyond what load_from_fold
// supplies per-frame, mirroring engine_builder.go's EngineBuilderOption
// pattern: small functional options applied over a zero-value struct
// before backend construction.
type config struct {
	cpuLanes         int
	workerCount      int
	defaultStiffness float32
	defaultDamping   float32
}

func defaultConfig() config {
	return config{
		cpuLanes:         1,
		workerCount:      4,
		defaultStiffness: 0.7,
		defaultDamping:   0.1,
	}
}

// Option configures a Solver at Create time.
type Option func(*config)

// WithCPULanes records the SIMD lane width the CPU backend should target.
// This port's arena package carves arrays for the scalar L=1 layout only
// (spec.md §4.1's AoSoA table is not parameterized at runtime the way a
// compile-time ISA dispatch would be); values other than 1 are accepted
// for forward compatibility with a wider-lane arena but presently fall
// back to scalar.
func WithCPULanes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cpuLanes = n
		}
	}
}

// WithWorkerCount sets the persistent worker-pool size the CPU_MT
// backend submits stage chunks to (cpubackend.NewMultithreaded).
func WithWorkerCount(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workerCount = n
		}
	}
}

// WithDefaultStiffness sets the crease stiffness a loaded frame falls
// back to when it carries no rtori:edges_creaseStiffness for an edge
// (importer.Config.DefaultCreaseStiffness).
func WithDefaultStiffness(k float32) Option {
	return func(c *config) { c.defaultStiffness = k }
}

// WithDamping sets the damping percentage from which a loaded frame's
// beam damping coefficients are derived (importer.Config.DampingPercentage).
func WithDamping(p float32) Option {
	return func(c *config) { c.defaultDamping = p }
}
