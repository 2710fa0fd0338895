package selector

import (
	"golang.org/x/exp/rand"

	"github.com/binyao-or/vrp-solver/pkg/mdp"
)

// Selector adaptively chooses a (ruin, recreate) operator pair each
// generation, learning a preference per Phase via a pluggable
// mdp.LearningStrategy and mdp.ActionStrategy (spec.md §4.K "Q-values
// updated via a pluggable learning strategy ... action choice via
// ε-greedy or softmax"). Actions form the Cartesian product of the enabled
// ruin and recreate operators.
type Selector struct {
	Ruins     []NamedRuin
	Recreates []NamedRecreate
	sim       *mdp.Simulator[Phase, Action]
}

// NewSelector builds a selector over the ruin x recreate Cartesian
// product, using learning and action strategy implementations from
// pkg/mdp (typically mdp.QLearning/mdp.MonteCarlo and
// mdp.EpsilonGreedy/mdp.Softmax).
func NewSelector(ruins []NamedRuin, recreates []NamedRecreate, learning mdp.LearningStrategy[Action], action mdp.ActionStrategy[Action]) *Selector {
	return &Selector{
		Ruins:     ruins,
		Recreates: recreates,
		sim:       mdp.NewSimulator[Phase, Action](learning, action),
	}
}

// NewEpsilonGreedyQLearning builds the common default combination: a
// Q-learning value estimator with an ε-greedy action strategy.
func NewEpsilonGreedyQLearning(ruins []NamedRuin, recreates []NamedRecreate, alpha, gamma, epsilon float64, rng *rand.Rand) *Selector {
	return NewSelector(ruins, recreates,
		mdp.QLearning[Action]{Alpha: alpha, Gamma: gamma},
		mdp.EpsilonGreedy[Action]{Epsilon: epsilon, RNG: rng})
}

// actions enumerates every (ruin, recreate) pair the current portfolio admits.
func (s *Selector) actions() []Action {
	actions := make([]Action, 0, len(s.Ruins)*len(s.Recreates))
	for _, r := range s.Ruins {
		for _, c := range s.Recreates {
			actions = append(actions, Action{RuinName: r.Name, RecreateName: c.Name})
		}
	}
	return actions
}

func (s *Selector) resolve(action Action) Operator {
	op := Operator{Action: action}
	for _, r := range s.Ruins {
		if r.Name == action.RuinName {
			op.Ruin = r.Ruin
			break
		}
	}
	for _, c := range s.Recreates {
		if c.Name == action.RecreateName {
			op.Recreate = c.Recreate
			break
		}
	}
	return op
}

// Choose picks one operator pair for the given phase.
func (s *Selector) Choose(phase Phase) Operator {
	action := s.sim.SelectAction(phase, s.actions())
	return s.resolve(action)
}

// Feed reports the reward observed for having chosen op while in phase,
// folding it into the Q-table keyed by (phase, action); nextPhase is the
// phase the search occupies after the move (spec.md §4.J step 8 "feed
// selector with reward = normalised improvement vs parent").
func (s *Selector) Feed(phase Phase, op Operator, reward float64, nextPhase Phase) {
	s.sim.Update(phase, op.Action, reward, &nextPhase)
}
