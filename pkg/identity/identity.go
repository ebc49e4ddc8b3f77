// Package identity implements EdDSA-on-BabyJubjub key material: secret
// scalar derivation, public key and commitment computation, and message
// signing/verification.
package identity

import (
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/vex-zk/semaphore-go/pkg/curve"
	"github.com/vex-zk/semaphore-go/pkg/element"
	"github.com/vex-zk/semaphore-go/pkg/poseidon"
)

// Identity is the immutable tuple {privateKey, secretScalar, publicKey,
// commitment}. All fields besides privateKey are deterministic functions of
// it, computed once at construction.
type Identity struct {
	privateKey   []byte
	secretScalar *big.Int
	publicKey    *curve.Point
	commitment   *big.Int
}

// New derives an Identity from an arbitrary-length private key byte string.
func New(privateKey []byte) (*Identity, error) {
	pk := make([]byte, len(privateKey))
	copy(pk, privateKey)

	h, err := blake512(pk)
	if err != nil {
		return nil, err
	}
	clamp(h)

	secretScalar := deriveSecretScalar(h)
	publicKey := curve.ScalarMulBase(secretScalar)

	commitment, err := poseidon.Hash2(publicKey.X, publicKey.Y)
	if err != nil {
		return nil, err
	}

	return &Identity{
		privateKey:   pk,
		secretScalar: secretScalar,
		publicKey:    publicKey,
		commitment:   commitment,
	}, nil
}

// SecretScalar returns the cofactor-cleared scalar used as the circuit
// witness and to derive the public key. Distinct from the raw scalar used
// inside Sign — see the "Two secrets" note above Sign in the sibling file
// signature.go.
func (id *Identity) SecretScalar() *big.Int {
	return new(big.Int).Set(id.secretScalar)
}

// PublicKey returns the Edwards-affine public key point.
func (id *Identity) PublicKey() *curve.Point {
	return id.publicKey
}

// Commitment returns the Poseidon₂(pub.x, pub.y) identity commitment.
func (id *Identity) Commitment() *big.Int {
	return new(big.Int).Set(id.commitment)
}

// CommitmentElement returns the commitment re-encoded as a little-endian
// Element, ready for insertion as a Group leaf.
func (id *Identity) CommitmentElement() element.Element {
	return element.FromBigInt(id.commitment)
}

// blake512 hashes data with Blake2b-512 (the "blake512" construction this
// protocol's deployed circuits use — see SPEC_FULL.md's domain stack note).
func blake512(data []byte) ([]byte, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(data); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// clamp masks the low three bits of the first byte and fixes the top two
// bits of byte 31, forcing the resulting scalar into the form required for
// safe fixed-base scalar multiplication (standard Ed25519/EdDSA clamping).
func clamp(h []byte) {
	h[0] &= 0xF8
	h[31] &= 0x7F
	h[31] |= 0x40
}

// deriveSecretScalar takes the clamped hash's first 32 bytes as a
// little-endian integer, divides by the curve cofactor, and reduces modulo
// the subgroup order.
func deriveSecretScalar(clampedHash []byte) *big.Int {
	v := leToBigInt(clampedHash[:32])
	v.Rsh(v, 3) // divide by cofactor (8)
	v.Mod(v, curve.SubOrder)
	return v
}

// leToBigInt interprets b as a little-endian unsigned integer.
func leToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// reverseBytes returns a new slice with b's bytes in reverse order.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
