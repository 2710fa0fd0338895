package mdp

// QTable holds the current value estimate for every (state, action) pair
// visited so far, lazily populated.
type QTable[S comparable, A comparable] map[S]map[A]float64

// ValuesFor returns the action-value map for state, creating an empty one
// if state hasn't been visited yet.
func (t QTable[S, A]) ValuesFor(state S) map[A]float64 {
	values, ok := t[state]
	if !ok {
		values = make(map[A]float64)
		t[state] = values
	}
	return values
}

// Simulator drives one-step MDP updates against a QTable: pick an action
// for a state via the configured ActionStrategy, then fold an observed
// reward back into the table via the configured LearningStrategy. It does
// not own trajectory stepping itself -- component J's evolution controller
// calls SelectAction once per generation and Update once the resulting
// reward is known, rather than running a self-contained episode loop the
// way a textbook MDP simulator would, since here "taking an action" means
// running a ruin/recreate pair against a population member, a side effect
// the evolution controller owns.
type Simulator[S comparable, A comparable] struct {
	Learning LearningStrategy[A]
	Action   ActionStrategy[A]
	Values   QTable[S, A]
}

// NewSimulator builds a simulator with the given strategies and fresh Q-table.
func NewSimulator[S comparable, A comparable](learning LearningStrategy[A], action ActionStrategy[A]) *Simulator[S, A] {
	return &Simulator[S, A]{Learning: learning, Action: action, Values: make(QTable[S, A])}
}

// SelectAction chooses an action for state over the supplied candidate set,
// seeding any candidate missing from the Q-table at value 0.
func (sim *Simulator[S, A]) SelectAction(state S, candidates []A) A {
	values := sim.Values.ValuesFor(state)
	for _, a := range candidates {
		if _, ok := values[a]; !ok {
			values[a] = 0
		}
	}
	return sim.Action.Select(values)
}

// Update folds an observed reward for taking action in state, given the
// action-value map of the resulting next state (nil for a terminal
// transition), back into the Q-table.
func (sim *Simulator[S, A]) Update(state S, action A, reward float64, nextState *S) {
	values := sim.Values.ValuesFor(state)
	old := values[action]
	var next map[A]float64
	if nextState != nil {
		next = sim.Values.ValuesFor(*nextState)
	}
	values[action] = sim.Learning.Value(reward, &old, next)
}
