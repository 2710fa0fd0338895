// Package mdp implements the Markov Decision Process abstractions component
// K's operator selector is built on: State/Agent/LearningStrategy/
// ActionStrategy/TerminationStrategy, ported from
// original_source/vrp-core/src/algorithms/mdp/mod.rs. The Rust original
// ships only these trait definitions (its simulator/strategies submodules
// were not part of the filtered source), so the concrete QLearning,
// EpsilonGreedy, Softmax and Simulator types in this package are new code
// written to the same contracts, per spec.md §4.K's "Q-learning,
// monte-carlo" / "ε-greedy or softmax" requirements.
package mdp

// State is one position an Agent can occupy. Actions returns nil for a
// terminal state (mirrors the Rust trait's "no actions means terminal").
type State[A comparable] interface {
	Actions() []A
	Reward() float64
}

// Agent drives one MDP trajectory: it knows its current state and can
// apply an action, which may move it to a new state.
type Agent[A comparable, S State[A]] interface {
	CurrentState() S
	TakeAction(action A)
}

// LearningStrategy estimates an updated action value from an observed
// reward, the action's old value (if any), and the value estimates of
// every action available from the resulting state (if any).
type LearningStrategy[A comparable] interface {
	Value(reward float64, oldValue *float64, nextActionValues map[A]float64) float64
}

// ActionStrategy picks one action given the current value estimate for
// every available action.
type ActionStrategy[A comparable] interface {
	Select(actionValues map[A]float64) A
}

// TerminationStrategy decides when a trajectory is over.
type TerminationStrategy[S any] interface {
	IsTerminal(state S) bool
}
