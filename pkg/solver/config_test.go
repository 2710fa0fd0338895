package solver

import "testing"

func TestSetDefaultsFillsEveryZeroField(t *testing.T) {
	var c Config
	c.SetDefaults()

	if c.Termination.MaxGenerations != DefaultMaxGenerations {
		t.Errorf("MaxGenerations = %v, want %v", c.Termination.MaxGenerations, DefaultMaxGenerations)
	}
	if c.Termination.MaxTime != DefaultMaxTime {
		t.Errorf("MaxTime = %v, want %v", c.Termination.MaxTime, DefaultMaxTime)
	}
	if c.Termination.MinCVRatio != DefaultMinCVRatio {
		t.Errorf("MinCVRatio = %v, want %v", c.Termination.MinCVRatio, DefaultMinCVRatio)
	}
	if c.Termination.MinCVSample != DefaultMinCVSample {
		t.Errorf("MinCVSample = %v, want %v", c.Termination.MinCVSample, DefaultMinCVSample)
	}
	if c.Population.Size != DefaultPopulationSize {
		t.Errorf("Population.Size = %v, want %v", c.Population.Size, DefaultPopulationSize)
	}
	if c.Population.Selection != Elitist {
		t.Errorf("Population.Selection = %v, want %v", c.Population.Selection, Elitist)
	}
	if len(c.Population.InitialMethods) != 1 || c.Population.InitialMethods[0] != "gcsh" {
		t.Errorf("Population.InitialMethods = %v, want [gcsh]", c.Population.InitialMethods)
	}
	if c.Environment.Parallelism != DefaultParallelism {
		t.Errorf("Environment.Parallelism = %v, want %v", c.Environment.Parallelism, DefaultParallelism)
	}
	if len(c.Telemetry) != 1 || c.Telemetry[0] != TelemetryLog {
		t.Errorf("Telemetry = %v, want [log]", c.Telemetry)
	}
	if len(c.Search.RuinOps) == 0 {
		t.Error("Search.RuinOps should default to a non-empty list")
	}
	if len(c.Search.RecreateOps) == 0 {
		t.Error("Search.RecreateOps should default to a non-empty list")
	}
	if len(c.Search.LocalSearch.Moves) != 0 {
		t.Error("Search.LocalSearch.Moves should stay empty when LocalSearch.On is false")
	}
}

func TestSetDefaultsPreservesExplicitValues(t *testing.T) {
	c := Config{
		Termination: TerminationConfig{MaxGenerations: 5},
		Population:  PopulationConfig{Size: 10, Selection: Roulette},
	}
	c.SetDefaults()
	if c.Termination.MaxGenerations != 5 {
		t.Errorf("MaxGenerations = %v, want 5 (explicit value preserved)", c.Termination.MaxGenerations)
	}
	if c.Population.Size != 10 {
		t.Errorf("Population.Size = %v, want 10 (explicit value preserved)", c.Population.Size)
	}
	if c.Population.Selection != Roulette {
		t.Errorf("Population.Selection = %v, want roulette (explicit value preserved)", c.Population.Selection)
	}
}

func TestSetDefaultsPopulatesLocalSearchMovesOnlyWhenEnabled(t *testing.T) {
	c := Config{Search: SearchConfig{LocalSearch: LocalSearchConfig{On: true}}}
	c.SetDefaults()
	if len(c.Search.LocalSearch.Moves) == 0 {
		t.Error("LocalSearch.Moves should default to the full move list when On is true")
	}
}

func TestValidateAcceptsDefaultedConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() on a defaulted config: %v", err)
	}
}

func TestValidateRejectsNonPositiveMaxGenerations(t *testing.T) {
	c := Config{Termination: TerminationConfig{MaxGenerations: 0, MaxTime: 1}, Population: PopulationConfig{Size: 1, Selection: Elitist}, Environment: EnvironmentConfig{Parallelism: 1}, Search: SearchConfig{RuinOps: []string{"random"}, RecreateOps: []string{"cheapest"}}}
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("a zero max_generations should be rejected")
	}
}

func TestValidateRejectsUnknownSelection(t *testing.T) {
	c := validBaseConfig()
	c.Population.Selection = "bogus"
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("an unknown population.selection should be rejected")
	}
}

func TestValidateRejectsUnknownInitialMethod(t *testing.T) {
	c := validBaseConfig()
	c.Population.InitialMethods = []string{"nope"}
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("an unknown initial method should be rejected")
	}
}

func TestValidateRejectsEmptyRuinOps(t *testing.T) {
	c := validBaseConfig()
	c.Search.RuinOps = nil
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("empty search.ruin_ops should be rejected")
	}
}

func TestValidateRejectsUnknownRuinOp(t *testing.T) {
	c := validBaseConfig()
	c.Search.RuinOps = []string{"teleport"}
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("an unknown ruin operator should be rejected")
	}
}

func TestValidateRejectsUnknownLocalSearchMove(t *testing.T) {
	c := validBaseConfig()
	c.Search.LocalSearch.Moves = []string{"levitate"}
	if _, ok := asConfigError(t, c.Validate()); !ok {
		t.Fatal("an unknown local-search move should be rejected")
	}
}

func validBaseConfig() Config {
	return Config{
		Termination: TerminationConfig{MaxGenerations: 100, MaxTime: 1},
		Population:  PopulationConfig{Size: 10, Selection: Elitist, InitialMethods: []string{"gcsh"}},
		Environment: EnvironmentConfig{Parallelism: 1},
		Search:      SearchConfig{RuinOps: []string{"random"}, RecreateOps: []string{"cheapest"}},
	}
}

func asConfigError(t *testing.T, err error) (*ConfigError, bool) {
	t.Helper()
	if err == nil {
		return nil, false
	}
	ce, ok := err.(*ConfigError)
	return ce, ok
}
