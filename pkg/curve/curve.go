// Package curve adapts github.com/iden3/go-iden3-crypto/babyjub's point
// arithmetic to this protocol's BabyJubjub (EIP-2494) conventions: the
// cofactor-cleared Base point, not the raw Generator, is used for every
// scalar multiplication inside Identity and Signature.
package curve

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// Cofactor is BabyJubjub's curve cofactor.
const Cofactor = 8

// SubOrder is the prime order of BabyJubjub's subgroup (l in EIP-2494).
var SubOrder = babyjub.SubOrder

// Base is the cofactor-cleared generator: Base = Cofactor · Generator. All
// point scalar multiplications in this module use Base, never the raw
// curve generator, so results always land in the prime-order subgroup.
var Base = babyjub.B8

// Point is a BabyJubjub affine point.
type Point = babyjub.Point

// ScalarMulBase computes k·Base.
func ScalarMulBase(k *big.Int) *Point {
	return new(Point).Mul(k, Base)
}

// ScalarMul computes k·p.
func ScalarMul(k *big.Int, p *Point) *Point {
	return new(Point).Mul(k, p)
}

// Add computes a+b.
func Add(a, b *Point) *Point {
	return new(Point).Add(a, b)
}

// IsOnCurve reports whether p satisfies the twisted-Edwards curve equation.
func IsOnCurve(p *Point) bool {
	if p == nil {
		return false
	}
	return p.InCurve()
}

// ValidatePoint returns the matching taxonomy error (SignaturePointNotOnCurve
// or PublicKeyNotOnCurve) when p is not a valid curve point.
func ValidatePoint(p *Point, isSignatureR bool) error {
	if IsOnCurve(p) {
		return nil
	}
	if isSignatureR {
		return semerr.ErrSignaturePointNotOnCurve
	}
	return semerr.ErrPublicKeyNotOnCurve
}
