// Package selector implements component K, spec.md §4.K: an MDP-based
// chooser over (ruin, recreate) operator pairs, built on pkg/mdp's
// generic State/Agent/LearningStrategy/ActionStrategy contracts.
package selector

import (
	"fmt"

	"github.com/binyao-or/vrp-solver/pkg/mdp"
	"github.com/binyao-or/vrp-solver/pkg/recreate"
	"github.com/binyao-or/vrp-solver/pkg/ruin"
)

// Phase is the discretised search state spec.md §4.K names: "exploration"
// when recent improvement is scarce (the search should disrupt more), or
// "exploitation" when recent attempts are paying off (the search should
// stay local). It is the MDP's State type: actions (below) never vary
// with phase so Actions always returns the same set, but a discretised
// state is still useful because the Q-table conditions action values on
// it, letting the selector learn different operator preferences per
// phase.
type Phase int

const (
	Exploration Phase = iota
	Exploitation
)

func (p Phase) Actions() []Action { return nil } // action set is supplied externally, see Selector.actions
func (p Phase) Reward() float64   { return 0 }    // reward is observed externally per spec.md §4.J step 8

var _ mdp.State[Action] = Exploration

// Action is one (ruin, recreate) operator pair name -- a Cartesian product
// entry over the enabled ruin and recreate operator sets (spec.md §4.K
// "actions = the Cartesian product of enabled ruin and recreate
// operators"). Operators are referenced by name rather than value so Action
// stays comparable, which map[Action]float64 keying (pkg/mdp.QTable)
// requires.
type Action struct {
	RuinName     string
	RecreateName string
}

func (a Action) String() string { return fmt.Sprintf("%s+%s", a.RuinName, a.RecreateName) }

// NamedRuin and NamedRecreate attach a stable name to an operator instance,
// the name an Action's half keys into the Q-table.
type NamedRuin struct {
	Name string
	Ruin ruin.Ruin
}

type NamedRecreate struct {
	Name     string
	Recreate recreate.Recreate
}

// Operator is one resolved (ruin, recreate) pair -- what Selector.Choose
// returns, ready to run against a solution.
type Operator struct {
	Action   Action
	Ruin     ruin.Ruin
	Recreate recreate.Recreate
}

// PhaseThreshold is the improvement-ratio cutoff below which the selector
// reports Exploration rather than Exploitation (spec.md §4.K "discretised
// ... derived from recent improvement ratio").
const PhaseThreshold = 0.01

// ClassifyPhase discretises a recent improvement ratio (e.g. a sliding
// window's mean normalised fitness gain) into a Phase.
func ClassifyPhase(recentImprovementRatio float64) Phase {
	if recentImprovementRatio < PhaseThreshold {
		return Exploration
	}
	return Exploitation
}
