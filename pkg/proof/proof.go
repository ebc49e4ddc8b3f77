package proof

import (
	"fmt"
	"math/big"

	"github.com/vex-zk/semaphore-go/pkg/element"
	"github.com/vex-zk/semaphore-go/pkg/identity"
	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// Generate derives the Groth16 witness for identity's membership in source
// (resolved against commitment at the given depth), drives engine via
// resolver's artifacts, and returns the resulting SemaphoreProof.
func Generate(
	id *identity.Identity,
	source MembershipSource,
	message []byte,
	scope []byte,
	depth uint16,
	engine Groth16Engine,
	resolver ArtifactResolver,
) (*SemaphoreProof, error) {
	if err := validateDepth(depth); err != nil {
		return nil, err
	}

	mproof, err := source.resolve(id.CommitmentElement())
	if err != nil {
		return nil, err
	}

	actualLength := len(mproof.Siblings)
	siblings := make([]element.Element, depth)
	copy(siblings, mproof.Siblings)
	// Remaining entries stay element.Empty (the zero value), matching the
	// circuit's expectation of a full-depth padded sibling array.

	scopeInt, err := ToBigUint(scope)
	if err != nil {
		return nil, err
	}
	messageInt, err := ToBigUint(message)
	if err != nil {
		return nil, err
	}

	siblingStrs := make([]string, depth)
	for i, s := range siblings {
		siblingStrs[i] = s.ToBigInt().String()
	}

	w := witnessInputs{
		Secret:              []string{id.SecretScalar().String()},
		MerkleProofLength:   []string{fmt.Sprintf("%d", actualLength)},
		MerkleProofIndex:    []string{fmt.Sprintf("%d", mproof.Index)},
		MerkleProofSiblings: siblingStrs,
		Scope:               []string{hashToField(scopeInt).String()},
		Message:             []string{hashToField(messageInt).String()},
	}
	inputsJSON, err := w.marshal()
	if err != nil {
		return nil, &semerr.SerializationError{Msg: "witness inputs", Cause: err}
	}

	wc, err := resolver.ResolveWitness(depth)
	if err != nil {
		return nil, err
	}
	zkeyPath, err := resolver.ResolveZkey(depth)
	if err != nil {
		return nil, err
	}

	raw, publicInputs, err := engine.Prove(wc, inputsJSON, zkeyPath)
	if err != nil {
		return nil, err
	}
	if len(publicInputs) != 4 {
		return nil, &semerr.LeanIMTError{Msg: "groth16 engine returned unexpected public input count"}
	}

	return &SemaphoreProof{
		MerkleTreeDepth: depth,
		MerkleTreeRoot:  mproof.Root.ToBigInt(),
		Message:         messageInt,
		Nullifier:       publicInputs[1],
		Scope:           scopeInt,
		Points:          pack(raw),
	}, nil
}

// Verify reconstructs proof's public inputs and delegates to engine.Verify
// against the verifying key for proof.MerkleTreeDepth.
func Verify(p *SemaphoreProof, engine Groth16Engine, resolver ArtifactResolver) (bool, error) {
	if err := validateDepth(p.MerkleTreeDepth); err != nil {
		return false, err
	}

	publicInputs := []*big.Int{
		p.MerkleTreeRoot,
		p.Nullifier,
		hashToField(p.Message),
		hashToField(p.Scope),
	}

	raw := unpack(p.Points)

	zkeyPath, err := resolver.ResolveZkey(p.MerkleTreeDepth)
	if err != nil {
		return false, err
	}

	return engine.Verify(raw, publicInputs, zkeyPath)
}

// pack reorders a RawProof's limbs into the canonical on-chain order:
// [A.x, A.y, B.x[1], B.x[0], B.y[1], B.y[0], C.x, C.y].
func pack(raw *RawProof) PackedProof {
	return PackedProof{
		raw.A[0], raw.A[1],
		raw.B[0][1], raw.B[0][0],
		raw.B[1][1], raw.B[1][0],
		raw.C[0], raw.C[1],
	}
}

// unpack is pack's exact inverse.
func unpack(p PackedProof) *RawProof {
	return &RawProof{
		A: [2]*big.Int{p[0], p[1]},
		B: [2][2]*big.Int{{p[3], p[2]}, {p[5], p[4]}},
		C: [2]*big.Int{p[6], p[7]},
	}
}
