package solver

import "fmt"

// ConfigError reports malformed/contradictory config or an unknown
// operator name (spec.md §7 "fatal at startup").
type ConfigError struct{ Reason string }

func (e *ConfigError) Error() string { return fmt.Sprintf("solver: config error: %s", e.Reason) }

// ProblemError reports a problem invariant violation surfaced while
// building the pkg/problem.Problem (spec.md §7 "fatal at build"). It
// wraps whatever pkg/problem returned rather than redefining the
// invariant checks here.
type ProblemError struct{ Err error }

func (e *ProblemError) Error() string { return fmt.Sprintf("solver: problem error: %v", e.Err) }
func (e *ProblemError) Unwrap() error { return e.Err }

// InternalError reports a genuine bug rather than data-driven
// infeasibility (spec.md §7 "internal invariant violation"): a state
// cache missing a required key, an archive left with zero members after
// at least one offer, and similar conditions recreate/insertion should
// never produce on their own.
type InternalError struct{ Reason string }

func (e *InternalError) Error() string { return fmt.Sprintf("solver: internal error: %s", e.Reason) }
