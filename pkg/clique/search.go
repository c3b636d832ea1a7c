package clique

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

// State is the phase of a [Search].
type State int

const (
	// StateIdle means the beam has not been seeded yet.
	StateIdle State = iota
	// StateSeeded means the beam holds its initial candidates.
	StateSeeded
	// StateExpanding means at least one step ran and the search continues.
	StateExpanding
	// StateConverged means the best score stopped improving for Patience steps.
	StateConverged
	// StateExhausted means MaxEpochs steps ran.
	StateExhausted
	// StateNoCandidate means the graph has no core node to start from, or the
	// search ended without a qualifying candidate.
	StateNoCandidate
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeded:
		return "seeded"
	case StateExpanding:
		return "expanding"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	case StateNoCandidate:
		return "no_candidate"
	}
	return "unknown"
}

// Terminal reports whether no further step can run.
func (s State) Terminal() bool {
	return s == StateConverged || s == StateExhausted || s == StateNoCandidate
}

// Default search parameters.
const (
	DefaultBeamWidth   = 20
	DefaultSearchWidth = 20
	DefaultMaxEpochs   = 100
	DefaultPatience    = 3
	DefaultSeed        = 42
)

// scoreEpsilon is the smallest score increase counted as an improvement.
const scoreEpsilon = 1e-12

// Config bounds a search.
type Config struct {
	// BeamWidth is the number of candidates kept between steps.
	BeamWidth int
	// SearchWidth caps the expansions tried per beam member and step.
	SearchWidth int
	// MaxEpochs caps the number of steps.
	MaxEpochs int
	// Patience is the number of consecutive non-improving steps tolerated.
	Patience int
	// Seed seeds the sampling generator.
	Seed uint64
}

// DefaultConfig returns the default search bounds.
func DefaultConfig() Config {
	return Config{
		BeamWidth:   DefaultBeamWidth,
		SearchWidth: DefaultSearchWidth,
		MaxEpochs:   DefaultMaxEpochs,
		Patience:    DefaultPatience,
		Seed:        DefaultSeed,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BeamWidth <= 0 {
		c.BeamWidth = d.BeamWidth
	}
	if c.SearchWidth <= 0 {
		c.SearchWidth = d.SearchWidth
	}
	if c.MaxEpochs <= 0 {
		c.MaxEpochs = d.MaxEpochs
	}
	if c.Patience <= 0 {
		c.Patience = d.Patience
	}
	return c
}

// StepInfo describes one finished step.
type StepInfo struct {
	Step       int
	BeamSize   int
	Expansions int // admissible candidates generated during the step
	BestScore  float64
	Improved   bool
	State      State
}

// Result is the outcome of a finished search.
type Result struct {
	// Best is the best qualifying candidate seen, or nil when State is
	// StateNoCandidate.
	Best  *Candidate
	Steps int
	State State
}

// Search is a single beam search over one graph. It is not safe for
// concurrent use.
type Search struct {
	g      *graph.Graph
	scorer *Scorer
	cfg    Config
	rng    *rand.Rand

	state State
	beam  *Beam
	best  *Candidate
	steps int
	stale int

	onStep func(StepInfo)
}

// NewSearch prepares a search of g. Zero fields in cfg take their defaults.
func NewSearch(g *graph.Graph, sc *Scorer, cfg Config) *Search {
	cfg = cfg.withDefaults()
	return &Search{
		g:      g,
		scorer: sc,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(cfg.Seed, uint64(g.ID))),
		state:  StateIdle,
	}
}

// OnStep registers fn to be called after every step.
func (s *Search) OnStep(fn func(StepInfo)) { s.onStep = fn }

// State returns the current phase.
func (s *Search) State() State { return s.state }

// Steps returns the number of steps run so far.
func (s *Search) Steps() int { return s.steps }

// Best returns the best qualifying candidate seen so far, or nil. A candidate
// qualifies when it has at least one non-core member and passes the
// scorer's thresholds. Bare seeds never qualify.
func (s *Search) Best() *Candidate { return s.best }

// Beam returns the current beam members from best to worst.
func (s *Search) Beam() []*Candidate {
	if s.beam == nil {
		return nil
	}
	return s.beam.Members()
}

// Seed fills the beam with the BeamWidth core nodes of highest degree (ties
// by ascending id). Hint lists known members of a dense group; when it
// contains at least one core node of the graph it forms an additional seed.
// Seeds are expansion roots; they become [Search.Best] only if they qualify.
// Without core nodes the search ends in [StateNoCandidate].
func (s *Search) Seed(hint []ids.NodeID) {
	if s.state != StateIdle {
		return
	}
	cores := s.g.CoreIDs()
	if len(cores) == 0 {
		s.state = StateNoCandidate
		return
	}

	degree := func(id ids.NodeID) int {
		n, _ := s.g.Node(id)
		return n.Degree()
	}
	slices.SortStableFunc(cores, func(a, b ids.NodeID) int {
		if c := cmp.Compare(degree(b), degree(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	s.beam = NewBeam(s.cfg.BeamWidth)
	if c := s.hintCandidate(hint); c != nil {
		s.beam.Offer(c)
	}
	for _, id := range cores[:min(len(cores), s.cfg.BeamWidth)] {
		s.beam.Offer(seedCandidate(id, s.scorer))
	}
	s.best = s.bestQualifying(s.beam)
	s.state = StateSeeded
}

// hintCandidate builds the candidate spanned by the hinted nodes: every
// hinted core node, plus the hinted non-core nodes adjacent to all of them.
func (s *Search) hintCandidate(hint []ids.NodeID) *Candidate {
	hint = slices.Clone(hint)
	slices.Sort(hint)
	hint = slices.Compact(hint)

	var c *Candidate
	for _, id := range hint {
		n, ok := s.g.Node(id)
		if !ok || !n.IsCore() {
			continue
		}
		if c == nil {
			c = seedCandidate(id, s.scorer)
		} else {
			c = c.withCore(n, s.scorer)
		}
	}
	if c == nil {
		return nil
	}
	for _, id := range hint {
		n, ok := s.g.Node(id)
		if !ok || n.IsCore() || !s.adjacentToCore(c, n) {
			continue
		}
		c = c.withMember(n, s.scorer)
	}
	return c
}

// Step runs one expansion round and reports whether the search can continue.
func (s *Search) Step() bool {
	if s.state == StateIdle {
		s.Seed(nil)
	}
	if s.state.Terminal() {
		return false
	}
	s.steps++

	members := s.beam.Members()
	next := NewBeam(s.cfg.BeamWidth)
	for _, c := range members {
		next.Offer(c)
	}

	generated := 0
	for _, c := range members {
		for _, mv := range s.sample(s.expansions(c)) {
			var nc *Candidate
			if mv.core {
				nc = c.withCore(mv.node, s.scorer)
			} else {
				nc = c.withMember(mv.node, s.scorer)
			}
			if !s.scorer.Admissible(nc) {
				continue
			}
			generated++
			next.Offer(nc)
		}
	}
	s.beam = next

	improved := false
	if top := s.bestQualifying(next); top != nil && (s.best == nil || top.score > s.best.score+scoreEpsilon) {
		s.best = top
		s.stale = 0
		improved = true
	} else {
		s.stale++
	}

	switch {
	case s.stale >= s.cfg.Patience:
		s.state = StateConverged
	case s.steps >= s.cfg.MaxEpochs:
		s.state = StateExhausted
	default:
		s.state = StateExpanding
	}
	if s.state.Terminal() && s.best == nil {
		s.state = StateNoCandidate
	}

	if s.onStep != nil {
		s.onStep(StepInfo{
			Step:       s.steps,
			BeamSize:   next.Len(),
			Expansions: generated,
			BestScore:  s.bestScore(),
			Improved:   improved,
			State:      s.state,
		})
	}
	return !s.state.Terminal()
}

// Run seeds the search if needed and steps until a terminal state.
func (s *Search) Run(hint []ids.NodeID) Result {
	s.Seed(hint)
	for s.Step() {
	}
	return Result{Best: s.best, Steps: s.steps, State: s.state}
}

func (s *Search) qualifies(c *Candidate) bool {
	return len(c.members) > 0 && s.scorer.Admissible(c)
}

// bestQualifying returns the highest ranked qualifying member of b.
func (s *Search) bestQualifying(b *Beam) *Candidate {
	for _, c := range b.Members() {
		if s.qualifies(c) {
			return c
		}
	}
	return nil
}

func (s *Search) bestScore() float64 {
	if s.best == nil {
		return 0
	}
	return s.best.score
}

type move struct {
	node *graph.Node
	core bool
}

// expansions lists the legal one-node growths of c: core nodes sharing a
// non-core neighbor with a core member, then non-core nodes adjacent to every
// core member. Both groups are in ascending id order.
func (s *Search) expansions(c *Candidate) []move {
	var out []move

	seen := make(map[ids.NodeID]struct{})
	var cores []ids.NodeID
	for _, id := range c.core {
		n, _ := s.g.Node(id)
		for _, nb := range n.Neighbors() {
			m, _ := s.g.Node(nb)
			for _, other := range m.Neighbors() {
				if _, dup := seen[other]; dup || c.HasCore(other) {
					continue
				}
				seen[other] = struct{}{}
				cores = append(cores, other)
			}
		}
	}
	slices.Sort(cores)
	for _, id := range cores {
		n, _ := s.g.Node(id)
		out = append(out, move{node: n, core: true})
	}

	// Every valid non-core addition neighbors the sparsest core member.
	var pivot *graph.Node
	for _, id := range c.core {
		n, _ := s.g.Node(id)
		if pivot == nil || n.NeighborCount() < pivot.NeighborCount() {
			pivot = n
		}
	}
	for _, nb := range pivot.Neighbors() {
		if c.HasMember(nb) {
			continue
		}
		n, _ := s.g.Node(nb)
		if s.adjacentToCore(c, n) {
			out = append(out, move{node: n})
		}
	}
	return out
}

func (s *Search) adjacentToCore(c *Candidate, n *graph.Node) bool {
	for _, id := range c.core {
		if !n.Connected(id) {
			return false
		}
	}
	return true
}

// sample returns at most SearchWidth moves, drawn without replacement and
// kept in their original order.
func (s *Search) sample(moves []move) []move {
	if len(moves) <= s.cfg.SearchWidth {
		return moves
	}
	idx := make([]int, s.cfg.SearchWidth)
	sampleuv.WithoutReplacement(idx, len(moves), s.rng)
	slices.Sort(idx)

	out := make([]move, len(idx))
	for i, j := range idx {
		out[i] = moves[j]
	}
	return out
}

// Find runs a complete search of g and returns its result.
func Find(g *graph.Graph, sc *Scorer, cfg Config, hint []ids.NodeID) Result {
	return NewSearch(g, sc, cfg).Run(hint)
}

// MarshalText implements [encoding.TextMarshaler].
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *State) UnmarshalText(text []byte) error {
	for c := StateIdle; c <= StateNoCandidate; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown search state %q", text)
}
