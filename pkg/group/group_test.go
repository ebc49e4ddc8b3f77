package group

import (
	"math/big"
	"testing"

	"github.com/vex-zk/semaphore-go/pkg/element"
)

func elementFromDecimal(t *testing.T, s string) element.Element {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad fixture value %q", s)
	}
	return element.FromBigInt(v)
}

func TestEmptyGroup(t *testing.T) {
	g := &Group{}
	if _, ok := g.Root(); ok {
		t.Fatal("empty group should have no root")
	}
	if g.Depth() != 0 {
		t.Fatalf("empty group depth: got %d, want 0", g.Depth())
	}
	if g.Size() != 0 {
		t.Fatalf("empty group size: got %d, want 0", g.Size())
	}
}

// Fixtures generated by the reference TypeScript Semaphore V4 implementation
// (see original_source/tests/group.rs).
func TestInitialMembersRoot(t *testing.T) {
	members := []string{
		"100000000000000000000000000000",
		"200000000000000000000000000000",
		"300000000000000000000000000000",
	}
	leaves := make([]element.Element, len(members))
	for i, m := range members {
		leaves[i] = elementFromDecimal(t, m)
	}

	g, err := New(leaves)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	root, ok := g.Root()
	if !ok {
		t.Fatal("expected root")
	}
	wantRoot := "9130007428544271791338115123915220727467361888518863494831750410170124565752"
	if root.String() != wantRoot {
		t.Fatalf("root mismatch: got %s, want %s", root.String(), wantRoot)
	}
	if g.Depth() != 2 {
		t.Fatalf("depth mismatch: got %d, want 2", g.Depth())
	}
	if g.Size() != 3 {
		t.Fatalf("size mismatch: got %d, want 3", g.Size())
	}
}

func TestNewRejectsEmptyLeaf(t *testing.T) {
	_, err := New([]element.Element{elementFromDecimal(t, "1"), element.Empty})
	if err == nil {
		t.Fatal("expected EmptyLeaf error")
	}
}

func TestMerkleProof(t *testing.T) {
	members := []string{
		"100000000000000000000000000000",
		"200000000000000000000000000000",
		"300000000000000000000000000000",
	}
	leaves := make([]element.Element, len(members))
	for i, m := range members {
		leaves[i] = elementFromDecimal(t, m)
	}

	g, err := New(leaves)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	proof, err := g.GenerateProof(0)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	if proof.Leaf.String() != "100000000000000000000000000000" {
		t.Fatalf("leaf mismatch: got %s", proof.Leaf.String())
	}
	if proof.Index != 0 {
		t.Fatalf("index mismatch: got %d, want 0", proof.Index)
	}
	if len(proof.Siblings) != 2 {
		t.Fatalf("expected 2 siblings, got %d", len(proof.Siblings))
	}
	if proof.Siblings[0].String() != "200000000000000000000000000000" {
		t.Fatalf("sibling[0] mismatch: got %s", proof.Siblings[0].String())
	}
	if proof.Siblings[1].String() != "300000000000000000000000000000" {
		t.Fatalf("sibling[1] mismatch: got %s", proof.Siblings[1].String())
	}

	if !VerifyProof(proof) {
		t.Fatal("expected valid proof to verify")
	}

	invalid := *proof
	invalid.Leaf = elementFromDecimal(t, "999999999999999999999999999999")
	if VerifyProof(&invalid) {
		t.Fatal("expected flipped-leaf proof to fail verification")
	}

	if _, err := g.GenerateProof(999); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestSequentialOperations(t *testing.T) {
	g := &Group{}
	initial := []string{
		"100000000000000000000000000000",
		"200000000000000000000000000000",
		"300000000000000000000000000000",
	}
	leaves := make([]element.Element, len(initial))
	for i, m := range initial {
		leaves[i] = elementFromDecimal(t, m)
	}
	if err := g.AddMembers(leaves); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if err := g.AddMember(elementFromDecimal(t, "400000000000000000000000000000")); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := g.UpdateMember(1, elementFromDecimal(t, "500000000000000000000000000000")); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if err := g.RemoveMember(2); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	root, ok := g.Root()
	if !ok {
		t.Fatal("expected root")
	}
	wantRoot := "4382838098257486169531967821059829509336344667844562046304959594145268687258"
	if root.String() != wantRoot {
		t.Fatalf("root mismatch: got %s, want %s", root.String(), wantRoot)
	}
	if g.Depth() != 2 {
		t.Fatalf("depth mismatch: got %d, want 2", g.Depth())
	}
	if g.Size() != 4 {
		t.Fatalf("size mismatch: got %d, want 4", g.Size())
	}

	wantMembers := []string{
		"100000000000000000000000000000",
		"500000000000000000000000000000",
		"0",
		"400000000000000000000000000000",
	}
	members := g.Members()
	for i, want := range wantMembers {
		if members[i].String() != want {
			t.Fatalf("member[%d] mismatch: got %s, want %s", i, members[i].String(), want)
		}
	}

	if err := g.RemoveMember(2); err == nil {
		t.Fatal("expected AlreadyRemovedMember")
	}
	if err := g.UpdateMember(2, elementFromDecimal(t, "1")); err == nil {
		t.Fatal("expected RemovedMember")
	}
}

func TestIndexOf(t *testing.T) {
	members := []string{
		"100000000000000000000000000000",
		"200000000000000000000000000000",
		"300000000000000000000000000000",
	}
	leaves := make([]element.Element, len(members))
	for i, m := range members {
		leaves[i] = elementFromDecimal(t, m)
	}
	g, err := New(leaves)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if idx, ok := g.IndexOf(elementFromDecimal(t, "200000000000000000000000000000")); !ok || idx != 1 {
		t.Fatalf("IndexOf existing member: got (%d,%v), want (1,true)", idx, ok)
	}
	if _, ok := g.IndexOf(elementFromDecimal(t, "999999999999999999999999999999")); ok {
		t.Fatal("IndexOf non-existing member should report not found")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	members := []string{
		"100000000000000000000000000000",
		"200000000000000000000000000000",
	}
	leaves := make([]element.Element, len(members))
	for i, m := range members {
		leaves[i] = elementFromDecimal(t, m)
	}
	g, err := New(leaves)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data, err := g.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	g2, err := Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	r1, _ := g.Root()
	r2, _ := g2.Root()
	if r1 != r2 {
		t.Fatalf("round-trip root mismatch: %s vs %s", r1.String(), r2.String())
	}
	if g.Size() != g2.Size() {
		t.Fatalf("round-trip size mismatch: %d vs %d", g.Size(), g2.Size())
	}
}
