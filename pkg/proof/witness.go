package proof

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// maxCanonicalSize bounds the byte length ToBigUint accepts.
const maxCanonicalSize = 32

// ToBigUint canonicalizes an arbitrary byte string (message or scope, taken
// as raw bytes) into a big-endian unsigned integer: the bytes are
// left-aligned into a 32-byte buffer, so the integer value equals the input
// read as big-endian with zero bytes appended on the right. Fails with
// BigUintTooLarge if the input exceeds 32 bytes.
func ToBigUint(input []byte) (*big.Int, error) {
	if len(input) > maxCanonicalSize {
		return nil, &semerr.BigUintTooLarge{Size: len(input)}
	}

	var buf [maxCanonicalSize]byte
	copy(buf[:], input)
	return new(big.Int).SetBytes(buf[:]), nil
}

// hashToField computes hash(x) = (Keccak256(x.to_be_bytes()) as a
// big-endian integer) >> 8. The shift guarantees the result is strictly
// less than 2^248, safely below the BN254 scalar field order, matching the
// deployed circuit's public-input canonicalization without a modular
// reduction. x.to_be_bytes() is fixed-width (maxCanonicalSize bytes, as
// produced by ToBigUint) rather than big.Int's minimal encoding, so a
// canonicalized value with a zero leading byte still hashes the same
// feedstock a reference implementation would.
func hashToField(x *big.Int) *big.Int {
	buf := make([]byte, maxCanonicalSize)
	if n := len(x.Bytes()); n > maxCanonicalSize {
		// Only reachable via a SemaphoreProof built outside Generate (e.g. a
		// hand-built or tampered ImportProof value); ToBigUint already
		// enforces the 32-byte bound on every value Generate itself feeds
		// here. FillBytes would panic on an oversized value, so widen the
		// buffer instead of canonicalizing to a fixed width in that case.
		buf = make([]byte, n)
	}
	x.FillBytes(buf)
	digest := crypto.Keccak256(buf)
	out := new(big.Int).SetBytes(digest)
	return out.Rsh(out, 8)
}

// witnessInputs is the Circom witness-calculator input map, using the
// normative private-input keys from §6: secret, merkleProofLength,
// merkleProofIndex, merkleProofSiblings, scope, message.
type witnessInputs struct {
	Secret              []string `json:"secret"`
	MerkleProofLength   []string `json:"merkleProofLength"`
	MerkleProofIndex    []string `json:"merkleProofIndex"`
	MerkleProofSiblings []string `json:"merkleProofSiblings"`
	Scope               []string `json:"scope"`
	Message             []string `json:"message"`
}

func (w witnessInputs) marshal() ([]byte, error) {
	return json.Marshal(w)
}
