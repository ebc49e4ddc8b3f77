// Package element implements the Element type: a 32-byte little-endian
// encoding of a BN254 scalar-field element (BabyJubjub's base field Fq), and
// the conversions between
// raw bytes, Fq, and big.Int that the rest of the protocol builds on.
package element

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vex-zk/semaphore-go/pkg/semerr"
)

// Size is the fixed byte width of an Element.
const Size = 32

// Element is a little-endian 32-byte encoding of an Fq scalar. The empty
// element (all zeros) is the tombstone value for removed leaves and the
// padding sibling in a LeanIMT proof.
type Element [Size]byte

// Empty is the all-zero Element.
var Empty = Element{}

// IsEmpty reports whether e is the all-zero element.
func (e Element) IsEmpty() bool {
	return e == Empty
}

// FromBytes builds an Element from an arbitrary byte slice, right-padding
// with zeros. Little-endian semantics: padding lands in the high bytes.
// Fails with InputSizeExceeded if data is longer than Size bytes.
func FromBytes(data []byte) (Element, error) {
	if len(data) > Size {
		return Element{}, &semerr.InputSizeExceeded{Size: len(data)}
	}

	var e Element
	copy(e[:], data)
	return e, nil
}

// FromFq writes fq as 32 little-endian bytes.
func FromFq(fq *fr.Element) Element {
	be := fq.Bytes() // canonical big-endian encoding
	var e Element
	for i := 0; i < Size; i++ {
		e[i] = be[Size-1-i]
	}
	return e
}

// ToFq interprets e as a little-endian integer and reduces it modulo the
// BN254 scalar field (== BabyJubjub's base field Fq), matching
// Fq::from_le_bytes_mod_order in the reference implementation.
func (e Element) ToFq() fr.Element {
	var be [Size]byte
	for i := 0; i < Size; i++ {
		be[i] = e[Size-1-i]
	}

	var fq fr.Element
	fq.SetBytes(be[:])
	return fq
}

// ToBigInt interprets e as a little-endian unsigned integer, with no modular
// reduction.
func (e Element) ToBigInt() *big.Int {
	be := make([]byte, Size)
	for i := 0; i < Size; i++ {
		be[i] = e[Size-1-i]
	}
	return new(big.Int).SetBytes(be)
}

// FromBigInt encodes a non-negative integer as a little-endian Element,
// reducing modulo Fq first (matching FromFq's domain).
func FromBigInt(v *big.Int) Element {
	var fq fr.Element
	fq.SetBigInt(v)
	return FromFq(&fq)
}

// FqFromBEBytes reduces a big-endian byte string modulo Fq, matching
// Fq::from_be_mod_order in the reference implementation. Used to canonicalize
// a signed message into a field element for the EdDSA challenge hash.
func FqFromBEBytes(b []byte) *big.Int {
	var fq fr.Element
	fq.SetBytes(b)
	var out big.Int
	fq.BigInt(&out)
	return &out
}

// String returns the element's decimal Fq value, for diagnostics and test
// fixture comparisons.
func (e Element) String() string {
	fq := e.ToFq()
	var b big.Int
	fq.BigInt(&b)
	return b.String()
}
