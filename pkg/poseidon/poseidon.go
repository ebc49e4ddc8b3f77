// Package poseidon wraps the Circom-compatible Poseidon permutation used
// throughout the protocol: arity-2 for the Merkle tree and the identity
// commitment, arity-5 for the EdDSA challenge hash.
//
// This intentionally does not use gnark-crypto's poseidon2 package: Poseidon2
// is a different, incompatible permutation from the "circom" Poseidon this
// protocol's deployed circuits expect.
package poseidon

import (
	"fmt"
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/vex-zk/semaphore-go/pkg/element"
)

// Hash2 computes Poseidon₂(a, b) over Fq.
func Hash2(a, b *big.Int) (*big.Int, error) {
	return hashN(a, b)
}

// Hash5 computes Poseidon₅(a, b, c, d, e) over Fq.
func Hash5(a, b, c, d, e *big.Int) (*big.Int, error) {
	return hashN(a, b, c, d, e)
}

func hashN(inputs ...*big.Int) (*big.Int, error) {
	out, err := iden3poseidon.Hash(inputs)
	if err != nil {
		return nil, fmt.Errorf("poseidon: hash: %w", err)
	}
	return out, nil
}

// TreeHash is the LeanIMT's node hasher: given two Elements, interpret each
// as an Fq scalar (reducing via Element → Fq semantics, per §4.1) and return
// Poseidon₂(left, right) re-encoded as an Element.
func TreeHash(left, right element.Element) (element.Element, error) {
	lfq := left.ToFq()
	rfq := right.ToFq()

	var lv, rv big.Int
	lfq.BigInt(&lv)
	rfq.BigInt(&rv)

	out, err := Hash2(&lv, &rv)
	if err != nil {
		return element.Element{}, err
	}
	return element.FromBigInt(out), nil
}
