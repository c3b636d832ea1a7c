package clique

import "github.com/tidwall/btree"

// Beam holds at most width candidates ordered by score descending. No two
// members share a core set; when they would, the better-ranked one stays.
type Beam struct {
	width  int
	tree   *btree.BTreeG[*Candidate]
	byCore map[string]*Candidate
}

// NewBeam returns an empty beam holding at most width candidates.
func NewBeam(width int) *Beam {
	return &Beam{
		width:  max(width, 1),
		tree:   btree.NewBTreeG[*Candidate](ranksBefore),
		byCore: make(map[string]*Candidate),
	}
}

// Offer inserts c if it ranks among the width best distinct core sets and
// reports whether it was kept. The resulting beam does not depend on the
// order candidates are offered in.
func (b *Beam) Offer(c *Candidate) bool {
	if old, ok := b.byCore[c.coreKey]; ok {
		if !ranksBefore(c, old) {
			return false
		}
		b.remove(old)
	}
	if b.tree.Len() >= b.width {
		worst, _ := b.tree.Max()
		if !ranksBefore(c, worst) {
			return false
		}
		b.remove(worst)
	}
	b.tree.Set(c)
	b.byCore[c.coreKey] = c
	return true
}

func (b *Beam) remove(c *Candidate) {
	b.tree.Delete(c)
	delete(b.byCore, c.coreKey)
}

// Len returns the number of members.
func (b *Beam) Len() int { return b.tree.Len() }

// Best returns the top-ranked member, or nil for an empty beam.
func (b *Beam) Best() *Candidate {
	c, ok := b.tree.Min()
	if !ok {
		return nil
	}
	return c
}

// Members returns the members from best to worst.
func (b *Beam) Members() []*Candidate {
	out := make([]*Candidate, 0, b.tree.Len())
	b.tree.Scan(func(c *Candidate) bool {
		out = append(out, c)
		return true
	})
	return out
}
