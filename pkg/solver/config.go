package solver

import "time"

// Selection is the population replacement policy spec.md §6 names.
type Selection string

const (
	Roulette Selection = "roulette"
	Elitist  Selection = "elitist"
)

// TelemetryMode is one of the telemetry sinks spec.md §6 names; Config.Telemetry
// may enable any combination.
type TelemetryMode string

const (
	TelemetryLog      TelemetryMode = "log"
	TelemetryMetric   TelemetryMode = "metric"
	TelemetryProgress TelemetryMode = "progress"
)

// Default tuning constants, named and valued the way the teacher's
// defaults.go does (DefaultPopulationSize, DefaultMaxGenerations, ...).
const (
	DefaultPopulationSize  = 200
	DefaultMaxGenerations  = 2000
	DefaultMaxTime         = 30 * time.Second
	DefaultMinCVRatio      = 0.001
	DefaultMinCVSample     = 50
	DefaultParallelism     = 1
	DefaultTournamentSize  = 2
	DefaultBlinkProb       = 0.15
	DefaultLearningAlpha   = 0.2
	DefaultLearningGamma   = 0.9
	DefaultEpsilon         = 0.1
	DefaultPerturbationMag = 0.1
)

// TerminationConfig mirrors spec.md §6's
// "termination: {max_generations, max_time_ms, min_cv_ratio, min_cv_sample}".
type TerminationConfig struct {
	MaxGenerations int
	MaxTime        time.Duration
	MinCVRatio     float64
	MinCVSample    int
}

// PopulationConfig mirrors spec.md §6's
// "population: {size, selection, initial_methods: [...]}".
type PopulationConfig struct {
	Size           int
	Selection      Selection
	InitialMethods []string // e.g. "gcsh"; unrecognised names are a ConfigError
}

// EnvironmentConfig mirrors spec.md §6's "environment: {seed, parallelism}".
type EnvironmentConfig struct {
	Seed        uint64
	Parallelism int
}

// LocalSearchConfig mirrors spec.md §6's "local_search: {on, moves: [...]}".
type LocalSearchConfig struct {
	On    bool
	Moves []string // "relocate", "exchange", "two_opt", "or_opt"
}

// SearchConfig mirrors spec.md §6's
// "search: {ruin_ops, recreate_ops, mutation_ops, local_search}".
type SearchConfig struct {
	RuinOps     []string
	RecreateOps []string
	MutationOps []string // reserved: no mutation operator family is implemented yet, see DESIGN.md
	LocalSearch LocalSearchConfig
}

// Config is the solver's top-level configuration, spec.md §6's
// `solve(problem, config)` second argument.
type Config struct {
	Termination TerminationConfig
	Population  PopulationConfig
	Telemetry   []TelemetryMode
	Environment EnvironmentConfig
	Search      SearchConfig
}

// SetDefaults fills every zero-valued field with its documented default,
// the same one-pass "if unset, use default" shape as the teacher's
// SetDefaults_MultiObjectiveArgs.
func (c *Config) SetDefaults() {
	if c.Termination.MaxGenerations == 0 {
		c.Termination.MaxGenerations = DefaultMaxGenerations
	}
	if c.Termination.MaxTime == 0 {
		c.Termination.MaxTime = DefaultMaxTime
	}
	if c.Termination.MinCVRatio == 0 {
		c.Termination.MinCVRatio = DefaultMinCVRatio
	}
	if c.Termination.MinCVSample == 0 {
		c.Termination.MinCVSample = DefaultMinCVSample
	}
	if c.Population.Size == 0 {
		c.Population.Size = DefaultPopulationSize
	}
	if c.Population.Selection == "" {
		c.Population.Selection = Elitist
	}
	if len(c.Population.InitialMethods) == 0 {
		c.Population.InitialMethods = []string{"gcsh"}
	}
	if c.Environment.Parallelism == 0 {
		c.Environment.Parallelism = DefaultParallelism
	}
	if len(c.Telemetry) == 0 {
		c.Telemetry = []TelemetryMode{TelemetryLog}
	}
	if len(c.Search.RuinOps) == 0 {
		c.Search.RuinOps = []string{"random", "random_route", "worst"}
	}
	if len(c.Search.RecreateOps) == 0 {
		c.Search.RecreateOps = []string{"cheapest", "regret_2", "blinks"}
	}
	if c.Search.LocalSearch.On && len(c.Search.LocalSearch.Moves) == 0 {
		c.Search.LocalSearch.Moves = []string{"relocate", "exchange", "two_opt", "or_opt"}
	}
}

// Validate checks the config for contradictions (spec.md §7's ConfigError
// "malformed/contradictory config or unknown operator"). Call after
// SetDefaults; Validate does not itself default missing fields.
func (c *Config) Validate() error {
	if c.Termination.MaxGenerations <= 0 {
		return &ConfigError{Reason: "termination.max_generations must be positive"}
	}
	if c.Termination.MaxTime <= 0 {
		return &ConfigError{Reason: "termination.max_time must be positive"}
	}
	if c.Population.Size <= 0 {
		return &ConfigError{Reason: "population.size must be positive"}
	}
	switch c.Population.Selection {
	case Roulette, Elitist:
	default:
		return &ConfigError{Reason: "population.selection must be roulette or elitist"}
	}
	if c.Environment.Parallelism <= 0 {
		return &ConfigError{Reason: "environment.parallelism must be positive"}
	}
	for _, name := range c.Population.InitialMethods {
		if name != "gcsh" {
			return &ConfigError{Reason: "population.initial_methods: unknown method " + name}
		}
	}
	if len(c.Search.RuinOps) == 0 {
		return &ConfigError{Reason: "search.ruin_ops must not be empty"}
	}
	if len(c.Search.RecreateOps) == 0 {
		return &ConfigError{Reason: "search.recreate_ops must not be empty"}
	}
	for _, name := range c.Search.RuinOps {
		if !isKnownRuinOp(name) {
			return &ConfigError{Reason: "search.ruin_ops: unknown operator " + name}
		}
	}
	for _, name := range c.Search.RecreateOps {
		if !isKnownRecreateOp(name) {
			return &ConfigError{Reason: "search.recreate_ops: unknown operator " + name}
		}
	}
	for _, name := range c.Search.LocalSearch.Moves {
		if !isKnownLocalSearchMove(name) {
			return &ConfigError{Reason: "search.local_search.moves: unknown move " + name}
		}
	}
	return nil
}
