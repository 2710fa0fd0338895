package mdp

import (
	"math"

	"golang.org/x/exp/rand"
)

// QLearning is the standard off-policy TD(0) update:
// Q' = Q + alpha * (reward + gamma * max(next) - Q).
type QLearning[A comparable] struct {
	Alpha float64
	Gamma float64
}

func (q QLearning[A]) Value(reward float64, oldValue *float64, nextActionValues map[A]float64) float64 {
	old := 0.0
	if oldValue != nil {
		old = *oldValue
	}
	best := 0.0
	first := true
	for _, v := range nextActionValues {
		if first || v > best {
			best = v
			first = false
		}
	}
	return old + q.Alpha*(reward+q.Gamma*best-old)
}

var _ LearningStrategy[string] = QLearning[string]{}

// MonteCarlo averages observed returns into the running value estimate
// with a fixed blend rate, rather than bootstrapping off next-state
// values the way QLearning does.
type MonteCarlo[A comparable] struct {
	Alpha float64
}

func (m MonteCarlo[A]) Value(reward float64, oldValue *float64, _ map[A]float64) float64 {
	if oldValue == nil {
		return reward
	}
	return *oldValue + m.Alpha*(reward-*oldValue)
}

var _ LearningStrategy[string] = MonteCarlo[string]{}

// EpsilonGreedy picks the best-valued action with probability 1-Epsilon,
// and a uniformly random action otherwise.
type EpsilonGreedy[A comparable] struct {
	Epsilon float64
	RNG     *rand.Rand
}

func (e EpsilonGreedy[A]) Select(actionValues map[A]float64) A {
	if e.RNG.Float64() < e.Epsilon {
		return e.randomAction(actionValues)
	}
	return e.bestAction(actionValues)
}

func (e EpsilonGreedy[A]) bestAction(actionValues map[A]float64) A {
	var best A
	bestValue := math.Inf(-1)
	for a, v := range actionValues {
		if v > bestValue {
			best, bestValue = a, v
		}
	}
	return best
}

func (e EpsilonGreedy[A]) randomAction(actionValues map[A]float64) A {
	actions := make([]A, 0, len(actionValues))
	for a := range actionValues {
		actions = append(actions, a)
	}
	return actions[e.RNG.Intn(len(actions))]
}

var _ ActionStrategy[string] = EpsilonGreedy[string]{}

// Softmax samples an action with probability proportional to
// exp(value/Temperature), giving smoother exploration than EpsilonGreedy's
// hard random/greedy split, tuned by Temperature (lower = greedier).
type Softmax[A comparable] struct {
	Temperature float64
	RNG         *rand.Rand
}

func (s Softmax[A]) Select(actionValues map[A]float64) A {
	type weighted struct {
		action A
		weight float64
	}
	weights := make([]weighted, 0, len(actionValues))
	total := 0.0
	for a, v := range actionValues {
		w := math.Exp(v / s.Temperature)
		weights = append(weights, weighted{a, w})
		total += w
	}
	if total == 0 {
		return weights[s.RNG.Intn(len(weights))].action
	}
	target := s.RNG.Float64() * total
	acc := 0.0
	for _, w := range weights {
		acc += w.weight
		if acc >= target {
			return w.action
		}
	}
	return weights[len(weights)-1].action
}

var _ ActionStrategy[string] = Softmax[string]{}

// MaxGenerations terminates once a state's own generation counter (read
// via the generationOf callback) reaches Limit.
type MaxGenerations[S any] struct {
	Limit        int
	generationOf func(S) int
}

// NewMaxGenerations builds a termination strategy bounded by generation
// count, reading the current generation from each state via generationOf.
func NewMaxGenerations[S any](limit int, generationOf func(S) int) MaxGenerations[S] {
	return MaxGenerations[S]{Limit: limit, generationOf: generationOf}
}

func (m MaxGenerations[S]) IsTerminal(state S) bool {
	return m.generationOf(state) >= m.Limit
}

var _ TerminationStrategy[int] = MaxGenerations[int]{Limit: 0, generationOf: func(int) int { return 0 }}
