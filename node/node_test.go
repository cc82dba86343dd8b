package node_test

import (
	"testing"

	"github.com/docodec/docodec/node"
)

func TestNodeStartsUnset(t *testing.T) {
	n := node.New()
	if n.Kind() != node.Unset {
		t.Fatalf("want Unset, got %v", n.Kind())
	}
}

func TestScalarAccessors(t *testing.T) {
	b := node.NewBool(true)
	if v, ok := b.Bool(); !ok || !v {
		t.Fatalf("bool accessor: got %v, %v", v, ok)
	}
	if _, ok := b.Number(); ok {
		t.Fatalf("number accessor on bool node should fail")
	}
	s := node.NewString("hi")
	if v, ok := s.Str(); !ok || v != "hi" {
		t.Fatalf("string accessor: got %q, %v", v, ok)
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	n := node.NewObject()
	for _, k := range []string{"z", "a", "m"} {
		c, ok := n.Put(k)
		if !ok {
			t.Fatalf("Put(%q) failed", k)
		}
		c.SetNumber(1)
	}
	keys := n.Keys()
	want := []string{"z", "a", "m"}
	if len(keys) != len(want) {
		t.Fatalf("want %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("key %d: want %q, got %q", i, k, keys[i])
		}
	}
}

func TestPutDuplicateKeyFails(t *testing.T) {
	n := node.NewObject()
	if _, ok := n.Put("a"); !ok {
		t.Fatalf("first Put failed")
	}
	if _, ok := n.Put("a"); ok {
		t.Fatalf("duplicate Put should fail")
	}
}

func TestChildPointerStableAcrossAppends(t *testing.T) {
	n := node.New()
	n.BeginArray(0)
	first := n.Append()
	first.SetNumber(1)
	for i := 0; i < 64; i++ {
		n.Append().SetNumber(float64(i))
	}
	if got := n.At(0); got != first {
		t.Fatalf("first element moved after appends")
	}
	if v, _ := first.Number(); v != 1 {
		t.Fatalf("want 1, got %v", v)
	}
}

func TestEqualIgnoresObjectKeyOrder(t *testing.T) {
	a := node.NewObject()
	a.Put("x")
	a.Put("y")
	av, _ := a.Get("x")
	av.SetNumber(1)
	bv, _ := a.Get("y")
	bv.SetNumber(2)

	b := node.NewObject()
	b.Put("y")
	b.Put("x")
	yv, _ := b.Get("y")
	yv.SetNumber(2)
	xv, _ := b.Get("x")
	xv.SetNumber(1)

	if !node.Equal(a, b) {
		t.Fatalf("objects differing only in key order should be equal")
	}
}

func TestEqualRespectsArrayOrder(t *testing.T) {
	a, err := node.FromAny([]any{1, 2})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	b, err := node.FromAny([]any{2, 1})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if node.Equal(a, b) {
		t.Fatalf("arrays with different element order should differ")
	}
}

func TestCloneIsDeepAndIndependent(t *testing.T) {
	orig, err := node.FromAny(map[string]any{"a": []any{1.0, 2.0}})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	cp := orig.Clone()
	if !node.Equal(orig, cp) {
		t.Fatalf("clone should equal original")
	}
	arr, _ := cp.Get("a")
	arr.At(0).SetNumber(99)
	if node.Equal(orig, cp) {
		t.Fatalf("editing the clone must not reach the original")
	}
}

func TestInterfaceRoundTrip(t *testing.T) {
	in := map[string]any{"s": "hi", "n": 5.0, "b": true, "l": []any{1.0}}
	n, err := node.FromAny(in)
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	back, err := node.FromAny(n.Interface())
	if err != nil {
		t.Fatalf("FromAny(Interface): %v", err)
	}
	if !node.Equal(n, back) {
		t.Fatalf("Interface round trip changed the document")
	}
}
