// Package group implements the LeanIMT: a dynamic, Poseidon-hashed
// incremental Merkle tree used to track Semaphore group membership. Unlike a
// fixed-depth IMT, an unpaired node at an odd level is promoted unchanged
// rather than padded against a zero hash — no Poseidon call is wasted on a
// phantom sibling, and the tree's depth grows only as members are added.
package group

import (
	"encoding/json"

	"github.com/vex-zk/semaphore-go/pkg/element"
	"github.com/vex-zk/semaphore-go/pkg/poseidon"
	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// Proof is a membership witness: the leaf, plus the sibling path to root.
// Siblings lists the co-path nodes bottom-up, skipping levels where the path
// node was promoted without a sibling; bit i of Index selects whether the
// path node is the right child when hashed with Siblings[i]. Index is
// therefore the leaf's position only when no level on its path was skipped.
type Proof struct {
	Root     element.Element   `json:"root"`
	Leaf     element.Element   `json:"leaf"`
	Index    int               `json:"index"`
	Siblings []element.Element `json:"siblings"`
}

// Group is the mutable LeanIMT. The zero value is an empty group, matching
// the reference implementation's Default.
type Group struct {
	leaves []element.Element
	levels [][]element.Element // levels[0] == leaves; levels[len-1] has 1 node once non-empty
}

// New builds a Group from an initial member list, in one pass. Returns
// EmptyLeaf if any element is the all-zero tombstone value.
func New(initial []element.Element) (*Group, error) {
	g := &Group{}
	if err := g.AddMembers(initial); err != nil {
		return nil, err
	}
	return g, nil
}

// Root returns the tree's single top-level node, or the empty Element with
// ok=false when the group has no members.
func (g *Group) Root() (element.Element, bool) {
	if len(g.leaves) == 0 {
		return element.Element{}, false
	}
	top := g.levels[len(g.levels)-1]
	return top[0], true
}

// Depth returns ceil(log2(size)), or 0 when the group is empty.
func (g *Group) Depth() int {
	if len(g.leaves) == 0 {
		return 0
	}
	return len(g.levels) - 1
}

// Size returns the number of leaf slots, including tombstoned (removed)
// ones.
func (g *Group) Size() int {
	return len(g.leaves)
}

// Members returns the ordered leaf slice, tombstones included.
func (g *Group) Members() []element.Element {
	out := make([]element.Element, len(g.leaves))
	copy(out, g.leaves)
	return out
}

// IndexOf returns the index of the first leaf equal to e, or ok=false if
// absent. Tombstoned slots (the empty element) never match a non-empty e.
func (g *Group) IndexOf(e element.Element) (int, bool) {
	for i, leaf := range g.leaves {
		if leaf == e {
			return i, true
		}
	}
	return 0, false
}

// AddMember appends e as a new leaf.
func (g *Group) AddMember(e element.Element) error {
	return g.AddMembers([]element.Element{e})
}

// AddMembers appends es atomically: every element is validated before any
// mutation occurs, matching the reference implementation's batch contract.
func (g *Group) AddMembers(es []element.Element) error {
	for _, e := range es {
		if e.IsEmpty() {
			return semerr.ErrEmptyLeaf
		}
	}

	g.leaves = append(g.leaves, es...)
	return g.recompute()
}

// UpdateMember replaces the leaf at index i. Fails with RemovedMember if the
// slot has been tombstoned.
func (g *Group) UpdateMember(i int, e element.Element) error {
	if i < 0 || i >= len(g.leaves) {
		return &semerr.LeanIMTError{Msg: "index out of range"}
	}
	if g.leaves[i].IsEmpty() {
		return semerr.ErrRemovedMember
	}

	g.leaves[i] = e
	return g.recompute()
}

// RemoveMember tombstones the leaf at index i by overwriting it with the
// empty element. Indices are never reused or reassigned.
func (g *Group) RemoveMember(i int) error {
	if i < 0 || i >= len(g.leaves) {
		return &semerr.LeanIMTError{Msg: "index out of range"}
	}
	if g.leaves[i].IsEmpty() {
		return semerr.ErrAlreadyRemovedMember
	}

	g.leaves[i] = element.Empty
	return g.recompute()
}

// GenerateProof builds a membership Proof for the leaf at index i.
func (g *Group) GenerateProof(i int) (*Proof, error) {
	if i < 0 || i >= len(g.leaves) {
		return nil, &semerr.LeanIMTError{Msg: "index out of range"}
	}

	root, _ := g.Root()
	var siblings []element.Element

	// The proof's Index field packs only the REAL hash-step directions, in
	// order: a level where this node is the odd one out gets promoted
	// unchanged and contributes neither a sibling nor a direction bit. This
	// keeps index and siblings in lockstep so VerifyProof's "(index >> k)
	// & 1 selects the direction for siblings[k]" holds for every k, even
	// when a path is promoted through one or more levels.
	idx := i
	compactedIndex := 0
	step := 0
	for level := 0; level < len(g.levels)-1; level++ {
		nodes := g.levels[level]
		var siblingIdx int
		isRight := idx%2 != 0
		if !isRight {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}

		if siblingIdx < len(nodes) {
			siblings = append(siblings, nodes[siblingIdx])
			if isRight {
				compactedIndex |= 1 << step
			}
			step++
		}
		idx /= 2
	}

	return &Proof{
		Root:     root,
		Leaf:     g.leaves[i],
		Index:    compactedIndex,
		Siblings: siblings,
	}, nil
}

// VerifyProof recomputes the root from (leaf, index, siblings) and compares
// it against p.Root. It is a pure function of its argument: it does not
// consult any live Group.
func VerifyProof(p *Proof) bool {
	cur := p.Leaf
	idx := p.Index

	for _, sibling := range p.Siblings {
		var next element.Element
		var err error
		if idx%2 == 0 {
			next, err = poseidon.TreeHash(cur, sibling)
		} else {
			next, err = poseidon.TreeHash(sibling, cur)
		}
		if err != nil {
			return false
		}
		cur = next
		idx /= 2
	}

	return cur == p.Root
}

// recompute rebuilds every tree level from the current leaf slice. The
// LeanIMT promotes an odd trailing node unchanged instead of padding with a
// zero sibling; Poseidon is only invoked on genuine pairs.
func (g *Group) recompute() error {
	if len(g.leaves) == 0 {
		g.levels = nil
		return nil
	}

	levels := [][]element.Element{append([]element.Element(nil), g.leaves...)}
	cur := levels[0]

	for len(cur) > 1 {
		next := make([]element.Element, 0, (len(cur)+1)/2)
		for i := 0; i+1 < len(cur); i += 2 {
			h, err := poseidon.TreeHash(cur[i], cur[i+1])
			if err != nil {
				return err
			}
			next = append(next, h)
		}
		if len(cur)%2 == 1 {
			next = append(next, cur[len(cur)-1])
		}
		levels = append(levels, next)
		cur = next
	}

	g.levels = levels
	return nil
}

// exportedGroup is the JSON wire shape for Group.Export/Import: only the
// leaf array is carried, since internal levels are a pure function of it.
type exportedGroup struct {
	Leaves []element.Element `json:"leaves"`
}

// Export serializes the group as JSON, carrying the full leaf array.
func (g *Group) Export() ([]byte, error) {
	out, err := json.Marshal(exportedGroup{Leaves: g.leaves})
	if err != nil {
		return nil, &semerr.SerializationError{Msg: "group export", Cause: err}
	}
	return out, nil
}

// Import rebuilds a Group from JSON produced by Export. Unlike New, a
// tombstoned (zero) leaf is accepted, since Export/Import must round-trip a
// group that has had members removed.
func Import(data []byte) (*Group, error) {
	var wire exportedGroup
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &semerr.SerializationError{Msg: "group import", Cause: err}
	}

	g := &Group{leaves: wire.Leaves}
	if err := g.recompute(); err != nil {
		return nil, err
	}
	return g, nil
}

// DebugString renders the tree level-by-level for test diagnostics.
func (g *Group) DebugString() string {
	if len(g.levels) == 0 {
		return "<empty group>"
	}
	s := ""
	for lvl := len(g.levels) - 1; lvl >= 0; lvl-- {
		s += "level "
		s += itoa(lvl)
		s += ": "
		for _, n := range g.levels[lvl] {
			s += n.String()
			s += " "
		}
		s += "\n"
	}
	return s
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
