package identity

import (
	"math/big"

	"github.com/vex-zk/semaphore-go/pkg/curve"
	"github.com/vex-zk/semaphore-go/pkg/element"
	"github.com/vex-zk/semaphore-go/pkg/poseidon"
	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// maxMessageSize bounds messages passed to Sign/Verify; longer inputs can't
// be canonicalized into a single Fq scalar.
const maxMessageSize = 32

// Signature is a Schnorr-like EdDSA signature over BabyJubjub: {R, s}.
type Signature struct {
	R *curve.Point
	S *big.Int
}

// Two secrets. Identity.SecretScalar (cofactor-cleared) drives the
// commitment and public key. Signing instead uses the raw, non-cofactor-
// divided scalar taken from the same clamped hash — required to match the
// EdDSA-on-BabyJubjub convention deployed on-chain. The two must never be
// unified.

// Sign produces a deterministic EdDSA signature over message.
func (id *Identity) Sign(message []byte) (*Signature, error) {
	if len(message) > maxMessageSize {
		return nil, &semerr.MessageSizeExceeded{Size: len(message)}
	}

	h, err := blake512(id.privateKey)
	if err != nil {
		return nil, err
	}
	clamp(h)

	secret := new(big.Int).Mod(leToBigInt(h[:32]), curve.SubOrder)

	kSeed := make([]byte, 64)
	copy(kSeed, h[32:64])
	copy(kSeed[32:], reverseBytes(message))

	kHash, err := blake512(kSeed)
	if err != nil {
		return nil, err
	}
	k := new(big.Int).Mod(leToBigInt(kHash), curve.SubOrder)

	r := curve.ScalarMulBase(k)

	c, err := eddsaChallenge(r, id.publicKey, message)
	if err != nil {
		return nil, err
	}

	// s = k + c*secret
	s := new(big.Int).Mul(c, secret)
	s.Add(s, k)
	s.Mod(s, curve.SubOrder)

	return &Signature{R: r, S: s}, nil
}

// Verify checks sig against publicKey and message, returning the matching
// taxonomy error on the first failed precondition, in priority order:
// MessageSizeExceeded, SignaturePointNotOnCurve, PublicKeyNotOnCurve,
// SignatureVerificationFailed.
func (sig *Signature) Verify(publicKey *curve.Point, message []byte) error {
	if len(message) > maxMessageSize {
		return &semerr.MessageSizeExceeded{Size: len(message)}
	}
	if !curve.IsOnCurve(sig.R) {
		return semerr.ErrSignaturePointNotOnCurve
	}
	if !curve.IsOnCurve(publicKey) {
		return semerr.ErrPublicKeyNotOnCurve
	}

	c, err := eddsaChallenge(sig.R, publicKey, message)
	if err != nil {
		return err
	}
	c.Mul(c, big.NewInt(curve.Cofactor))

	lhs := curve.ScalarMulBase(sig.S)
	rhs := curve.Add(sig.R, curve.ScalarMul(c, publicKey))

	if lhs.X.Cmp(rhs.X) != 0 || lhs.Y.Cmp(rhs.Y) != 0 {
		return semerr.ErrSignatureVerificationFailed
	}
	return nil
}

// eddsaChallenge computes c = Poseidon₅(R.x, R.y, pk.x, pk.y, Fq(message))
// reduced modulo the subgroup order, per §4.3 step 4.
func eddsaChallenge(r, pk *curve.Point, message []byte) (*big.Int, error) {
	m := element.FqFromBEBytes(message)

	h, err := poseidon.Hash5(r.X, r.Y, pk.X, pk.Y, m)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(h, curve.SubOrder), nil
}
