// Package proof orchestrates Groth16 witness generation and verification
// for the Semaphore circuit: it builds the witness map from an Identity and
// a Group (or a precomputed membership witness), drives an injected Groth16
// engine, canonicalizes public inputs, and packs/unpacks proof points in
// the on-chain wire order.
package proof

import (
	"encoding/json"
	"math/big"

	"github.com/vex-zk/semaphore-go/config"
	"github.com/vex-zk/semaphore-go/pkg/element"
	"github.com/vex-zk/semaphore-go/pkg/group"
	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// PackedProof is the 8-limb Groth16 proof encoding in canonical on-chain
// order: [A.x, A.y, B.x[1], B.x[0], B.y[1], B.y[0], C.x, C.y]. The B-limb
// swap relative to some historical source snapshots is normative — see
// DESIGN.md's Open Question note.
type PackedProof [8]*big.Int

// SemaphoreProof is the public, serializable result of Proof.Generate.
type SemaphoreProof struct {
	MerkleTreeDepth uint16
	MerkleTreeRoot  *big.Int
	Message         *big.Int
	Nullifier       *big.Int
	Scope           *big.Int
	Points          PackedProof
}

// MembershipSource is a tagged union: either a live Group (from which the
// identity's membership witness is resolved by commitment lookup) or a
// precomputed MerkleProof, supplied directly. Mirrors the reference
// implementation's GroupOrMerkleProof sum type (see SPEC_FULL.md §C).
type MembershipSource struct {
	group   *group.Group
	witness *group.Proof
}

// FromGroup builds a MembershipSource that resolves membership by commitment
// lookup against g at proof-generation time.
func FromGroup(g *group.Group) MembershipSource {
	return MembershipSource{group: g}
}

// FromWitness builds a MembershipSource from an already-computed membership
// proof, bypassing group lookup entirely.
func FromWitness(w *group.Proof) MembershipSource {
	return MembershipSource{witness: w}
}

// resolve normalizes the source to a concrete group.Proof for the given
// identity commitment.
func (s MembershipSource) resolve(commitment element.Element) (*group.Proof, error) {
	if s.witness != nil {
		return s.witness, nil
	}
	if s.group == nil {
		return nil, &semerr.LeanIMTError{Msg: "no membership source supplied"}
	}

	idx, ok := s.group.IndexOf(commitment)
	if !ok {
		return nil, semerr.ErrIdentityNotInGroup
	}
	return s.group.GenerateProof(idx)
}

// wireProof is the JSON wire shape for SemaphoreProof.Export/Import,
// matching §4.5's "Serialization" contract: numeric depth, decimal-string
// scalars, and an 8-entry decimal-string points array.
type wireProof struct {
	MerkleTreeDepth uint16   `json:"merkle_tree_depth"`
	MerkleTreeRoot  string   `json:"merkle_tree_root"`
	Message         string   `json:"message"`
	Nullifier       string   `json:"nullifier"`
	Scope           string   `json:"scope"`
	Points          [8]string `json:"points"`
}

// Export serializes the proof as JSON.
func (p *SemaphoreProof) Export() ([]byte, error) {
	var wire wireProof
	wire.MerkleTreeDepth = p.MerkleTreeDepth
	wire.MerkleTreeRoot = p.MerkleTreeRoot.String()
	wire.Message = p.Message.String()
	wire.Nullifier = p.Nullifier.String()
	wire.Scope = p.Scope.String()
	for i, v := range p.Points {
		wire.Points[i] = v.String()
	}

	out, err := json.Marshal(wire)
	if err != nil {
		return nil, &semerr.SerializationError{Msg: "proof export", Cause: err}
	}
	return out, nil
}

// ImportProof rebuilds a SemaphoreProof from JSON produced by Export.
func ImportProof(data []byte) (*SemaphoreProof, error) {
	var wire wireProof
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &semerr.SerializationError{Msg: "proof import", Cause: err}
	}

	p := &SemaphoreProof{MerkleTreeDepth: wire.MerkleTreeDepth}
	var ok bool
	if p.MerkleTreeRoot, ok = new(big.Int).SetString(wire.MerkleTreeRoot, 10); !ok {
		return nil, &semerr.SerializationError{Msg: "invalid merkle_tree_root"}
	}
	if p.Message, ok = new(big.Int).SetString(wire.Message, 10); !ok {
		return nil, &semerr.SerializationError{Msg: "invalid message"}
	}
	if p.Nullifier, ok = new(big.Int).SetString(wire.Nullifier, 10); !ok {
		return nil, &semerr.SerializationError{Msg: "invalid nullifier"}
	}
	if p.Scope, ok = new(big.Int).SetString(wire.Scope, 10); !ok {
		return nil, &semerr.SerializationError{Msg: "invalid scope"}
	}
	for i := range p.Points {
		v, ok := new(big.Int).SetString(wire.Points[i], 10)
		if !ok {
			return nil, &semerr.SerializationError{Msg: "invalid points entry"}
		}
		p.Points[i] = v
	}
	return p, nil
}

// validateDepth enforces config.MinTreeDepth <= depth <= config.MaxTreeDepth.
func validateDepth(depth uint16) error {
	if depth < config.MinTreeDepth || depth > config.MaxTreeDepth {
		return semerr.ErrInvalidTreeDepth
	}
	return nil
}
