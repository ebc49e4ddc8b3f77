package proof

import (
	"encoding/json"
	"fmt"
	"math/big"

	rapidprover "github.com/iden3/go-rapidsnark/prover"
	rapidtypes "github.com/iden3/go-rapidsnark/types"
	rapidverifier "github.com/iden3/go-rapidsnark/verifier"
	rapidwitness "github.com/iden3/go-rapidsnark/witness"
)

// RawProof is the engine-agnostic Groth16 proof shape this package packs
// into a PackedProof: two G1 points (A, C) and one G2 point (B), each
// affine, matching the snarkjs/circom wire convention.
type RawProof struct {
	A [2]*big.Int
	B [2][2]*big.Int
	C [2]*big.Int
}

// WitnessCalculator computes a Circom witness (wtns binary) from the named
// input map that Generate builds from witnessInputs.
type WitnessCalculator interface {
	Calculate(inputs map[string]interface{}) ([]byte, error)
}

// Groth16Engine is the external collaborator contract from §6: prove drives
// the witness calculator and the proving key to produce a proof plus its
// public inputs; verify checks a proof against the verifying key.
type Groth16Engine interface {
	Prove(wc WitnessCalculator, inputsJSON []byte, zkeyPath string) (*RawProof, []*big.Int, error)
	Verify(proof *RawProof, publicInputs []*big.Int, zkeyPath string) (bool, error)
}

// rapidsnarkWasmCalculator adapts go-rapidsnark/witness's wasm-backed
// calculator to the WitnessCalculator interface.
type rapidsnarkWasmCalculator struct {
	calc *rapidwitness.Circom2WitnessCalculator
}

// NewWasmWitnessCalculator builds a WitnessCalculator from Circom witness
// wasm bytes, for the depth the caller has already resolved via an
// ArtifactResolver.
func NewWasmWitnessCalculator(wasmBytes []byte) (WitnessCalculator, error) {
	calc, err := rapidwitness.NewCircom2WitnessCalculator(wasmBytes, true)
	if err != nil {
		return nil, fmt.Errorf("proof: build witness calculator: %w", err)
	}
	return &rapidsnarkWasmCalculator{calc: calc}, nil
}

func (w *rapidsnarkWasmCalculator) Calculate(inputs map[string]interface{}) ([]byte, error) {
	wtns, err := w.calc.CalculateWTNSBin(inputs, true)
	if err != nil {
		return nil, fmt.Errorf("proof: calculate witness: %w", err)
	}
	return wtns, nil
}

// RapidsnarkEngine is the default Groth16Engine, backed by
// github.com/iden3/go-rapidsnark's prover/verifier pair over the standard
// snarkjs proof JSON wire format (pi_a/pi_b/pi_c).
type RapidsnarkEngine struct {
	// ReadZkey loads the proving/verifying key bytes for a resolved
	// zkey path. Injectable so tests can stub artifact I/O.
	ReadZkey func(path string) ([]byte, error)
}

type snarkjsProof struct {
	A        []string   `json:"pi_a"`
	B        [][]string `json:"pi_b"`
	C        []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
}

func (e *RapidsnarkEngine) Prove(wc WitnessCalculator, inputsJSON []byte, zkeyPath string) (*RawProof, []*big.Int, error) {
	var inputs map[string]interface{}
	if err := json.Unmarshal(inputsJSON, &inputs); err != nil {
		return nil, nil, fmt.Errorf("proof: decode witness inputs: %w", err)
	}

	wtns, err := wc.Calculate(inputs)
	if err != nil {
		return nil, nil, err
	}

	zkeyBytes, err := e.ReadZkey(zkeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("proof: read zkey: %w", err)
	}

	proofStr, publicStr, err := rapidprover.Groth16Prover(zkeyBytes, wtns)
	if err != nil {
		return nil, nil, fmt.Errorf("proof: groth16 prove: %w", err)
	}

	var sp snarkjsProof
	if err := json.Unmarshal([]byte(proofStr), &sp); err != nil {
		return nil, nil, fmt.Errorf("proof: decode proof json: %w", err)
	}
	raw, err := rawProofFromSnarkjs(&sp)
	if err != nil {
		return nil, nil, err
	}

	var publicStrs []string
	if err := json.Unmarshal([]byte(publicStr), &publicStrs); err != nil {
		return nil, nil, fmt.Errorf("proof: decode public signals: %w", err)
	}
	publicInputs := make([]*big.Int, len(publicStrs))
	for i, s := range publicStrs {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, nil, fmt.Errorf("proof: invalid public signal %q", s)
		}
		publicInputs[i] = v
	}

	return raw, publicInputs, nil
}

func (e *RapidsnarkEngine) Verify(proof *RawProof, publicInputs []*big.Int, zkeyPath string) (bool, error) {
	vkBytes, err := e.ReadZkey(zkeyPath)
	if err != nil {
		return false, fmt.Errorf("proof: read verifying key: %w", err)
	}

	publicStrs := make([]string, len(publicInputs))
	for i, v := range publicInputs {
		publicStrs[i] = v.String()
	}

	zkProof := rapidtypes.ZKProof{
		Proof: &rapidtypes.ProofData{
			A:        []string{proof.A[0].String(), proof.A[1].String(), "1"},
			B:        [][]string{{proof.B[0][0].String(), proof.B[0][1].String()}, {proof.B[1][0].String(), proof.B[1][1].String()}, {"1", "0"}},
			C:        []string{proof.C[0].String(), proof.C[1].String(), "1"},
			Protocol: "groth16",
			Curve:    "bn128",
		},
		PubSignals: publicStrs,
	}

	ok, err := rapidverifier.VerifyGroth16(zkProof, vkBytes)
	if err != nil {
		return false, fmt.Errorf("proof: groth16 verify: %w", err)
	}
	return ok, nil
}

func rawProofFromSnarkjs(sp *snarkjsProof) (*RawProof, error) {
	parse := func(s string) (*big.Int, error) {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("proof: invalid field element %q", s)
		}
		return v, nil
	}

	if len(sp.A) < 2 || len(sp.C) < 2 || len(sp.B) < 2 || len(sp.B[0]) < 2 || len(sp.B[1]) < 2 {
		return nil, fmt.Errorf("proof: malformed snarkjs proof")
	}

	ax, err := parse(sp.A[0])
	if err != nil {
		return nil, err
	}
	ay, err := parse(sp.A[1])
	if err != nil {
		return nil, err
	}
	cx, err := parse(sp.C[0])
	if err != nil {
		return nil, err
	}
	cy, err := parse(sp.C[1])
	if err != nil {
		return nil, err
	}
	// snarkjs encodes B as [[x0,x1],[y0,y1],[1,0]]: element index j holds
	// the degree-j Fp2 component. RawProof keeps that same order; the
	// on-chain swap happens only in PackedProof.
	bx0, err := parse(sp.B[0][0])
	if err != nil {
		return nil, err
	}
	bx1, err := parse(sp.B[0][1])
	if err != nil {
		return nil, err
	}
	by0, err := parse(sp.B[1][0])
	if err != nil {
		return nil, err
	}
	by1, err := parse(sp.B[1][1])
	if err != nil {
		return nil, err
	}

	return &RawProof{
		A: [2]*big.Int{ax, ay},
		B: [2][2]*big.Int{{bx0, bx1}, {by0, by1}},
		C: [2]*big.Int{cx, cy},
	}, nil
}
