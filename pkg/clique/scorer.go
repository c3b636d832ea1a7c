package clique

import (
	"math"

	"github.com/matzehuels/quasiclique/pkg/ids"
)

// RelationBudget reports how many distinct relations a core node can have
// to a node of a given type. [schema.Registry] implements it.
type RelationBudget interface {
	MaxRelationsByID(id ids.NodeTypeID) int
}

// Weights are the score exponents.
type Weights struct {
	Alpha float64 `json:"alpha" toml:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" toml:"beta" yaml:"beta"`
	// Gamma weights the density factor. Nil leaves density out of the score.
	Gamma *float64 `json:"gamma,omitempty" toml:"gamma" yaml:"gamma"`
}

// DefaultWeights returns Alpha = Beta = 1 with no density factor.
func DefaultWeights() Weights {
	return Weights{Alpha: 1, Beta: 1}
}

// Thresholds restrict which candidates may enter the beam. Nil fields are
// not enforced.
type Thresholds struct {
	// Global is the minimum density of the whole candidate.
	Global *float64 `json:"global,omitempty" toml:"global" yaml:"global"`
	// Local is the minimum density of every non-core member, that is its
	// coverage over |core| * MaxRelations(type).
	Local *float64 `json:"local,omitempty" toml:"local" yaml:"local"`
}

// Scorer computes candidate scores. It is stateless after construction and
// safe for concurrent use.
type Scorer struct {
	budget RelationBudget
	w      Weights
	th     Thresholds
}

// NewScorer returns a scorer reading relation budgets from budget.
func NewScorer(budget RelationBudget, w Weights, th Thresholds) *Scorer {
	return &Scorer{budget: budget, w: w, th: th}
}

// Density returns total coverage over the maximum possible coverage of a
// candidate with core core nodes and the given members, clamped to [0, 1].
// A candidate without members has density 0.
func (s *Scorer) Density(core int, members []Member) float64 {
	if core == 0 || len(members) == 0 {
		return 0
	}
	var have, most int
	for _, m := range members {
		have += m.Coverage
		most += s.budget.MaxRelationsByID(m.TypeID)
	}
	if most == 0 {
		return 0
	}
	return clamp(float64(have) / float64(core*most))
}

// Score returns the score of a candidate shape.
func (s *Scorer) Score(core int, members []Member) float64 {
	return s.score(core, len(members), s.Density(core, members))
}

func (s *Scorer) score(core, nonCore int, density float64) float64 {
	if core == 0 || nonCore == 0 {
		return 0
	}
	v := math.Pow(float64(core), s.w.Alpha) * math.Pow(float64(nonCore), s.w.Beta)
	if s.w.Gamma != nil {
		v *= math.Pow(density, *s.w.Gamma)
	}
	return v
}

// Admissible reports whether c satisfies the configured thresholds.
func (s *Scorer) Admissible(c *Candidate) bool {
	if s.th.Global != nil && c.density < *s.th.Global {
		return false
	}
	if s.th.Local != nil {
		for _, m := range c.members {
			if s.memberDensity(len(c.core), m) < *s.th.Local {
				return false
			}
		}
	}
	return true
}

func (s *Scorer) memberDensity(core int, m Member) float64 {
	most := core * s.budget.MaxRelationsByID(m.TypeID)
	if most == 0 {
		return 0
	}
	return clamp(float64(m.Coverage) / float64(most))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
