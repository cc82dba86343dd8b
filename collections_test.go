package docodec_test

import (
	"reflect"
	"testing"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/node"
)

func TestSliceRoundTrip(t *testing.T) {
	c := docodec.Slice(docodec.Int())
	in := []int{1, 2, 3}
	doc := docodec.Serialise(c, in)
	if doc.Kind() != node.Array || doc.Len() != 3 {
		t.Fatalf("want 3-element array, got %s", doc)
	}
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if !reflect.DeepEqual(in, back) {
		t.Fatalf("want %v, got %v", in, back)
	}
}

func TestSliceValidateCollectsAllElementIssues(t *testing.T) {
	doc, err := node.FromAny([]any{1.0, "x", 2.5})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, docodec.Slice(docodec.Int()), doc) {
		t.Fatalf("mixed array should not validate")
	}
	if len(dc.Issues()) < 2 {
		t.Fatalf("want an issue per bad element, got %v", dc.Issues())
	}
}

func TestFixedSliceEnforcesSizeBothWays(t *testing.T) {
	c := docodec.FixedSlice(docodec.Int(), 2)
	dc := docodec.NewContext()
	docodec.SerialiseWith(dc, c, []int{1})
	if !hasCode(dc.Issues(), docodec.CodeCapacity) {
		t.Fatalf("short slice should report capacity, got %v", dc.Issues())
	}
	doc, err := node.FromAny([]any{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, doc) {
		t.Fatalf("3-element document should not validate against fixed size 2")
	}
}

func TestMapRoundTripAndSortedOutput(t *testing.T) {
	c := docodec.Map(docodec.String())
	in := map[string]string{"z": "1", "a": "2"}
	doc := docodec.Serialise(c, in)
	keys := doc.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "z" {
		t.Fatalf("want sorted keys [a z], got %v", keys)
	}
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if !reflect.DeepEqual(in, back) {
		t.Fatalf("want %v, got %v", in, back)
	}
}

func TestOptionalSentinelRoundTrip(t *testing.T) {
	c := docodec.OptionalOf(docodec.Int())
	doc := docodec.Serialise(c, docodec.None[int]())
	if s, _ := doc.Str(); s != docodec.NoValueSentinel {
		t.Fatalf("want sentinel, got %s", doc)
	}
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back.Present {
		t.Fatalf("sentinel should read back as absent")
	}

	doc = docodec.Serialise(c, docodec.Some(7))
	back, err = docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if !back.Present || back.Value != 7 {
		t.Fatalf("want Some(7), got %+v", back)
	}
}

func TestOptionalSentinelStringIsReserved(t *testing.T) {
	c := docodec.OptionalOf(docodec.String())
	doc := docodec.Serialise(c, docodec.Some(docodec.NoValueSentinel))
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back.Present {
		t.Fatalf("a string equal to the reserved sentinel must read back as absence")
	}
}

func TestVariant2RoundTrip(t *testing.T) {
	c := docodec.Variant2Of("num", docodec.Int(), "text", docodec.String())
	doc := docodec.Serialise(c, docodec.V2B[int, string]("hi"))
	if s, _ := mustKey(t, doc, "num").Str(); s != docodec.NoValueSentinel {
		t.Fatalf("dead alternative should hold the sentinel, got %s", doc)
	}
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back.Tag != 1 || back.B != "hi" {
		t.Fatalf("want text alternative hi, got %+v", back)
	}
}

func mustKey(t *testing.T, n *node.Node, label string) *node.Node {
	t.Helper()
	c, ok := n.Get(label)
	if !ok {
		t.Fatalf("missing key %q in %s", label, n)
	}
	return c
}

func TestVariant2RejectsZeroOrTwoLive(t *testing.T) {
	c := docodec.Variant2Of("num", docodec.Int(), "text", docodec.String())
	both, err := node.FromAny(map[string]any{"num": 1.0, "text": "hi"})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, both) {
		t.Fatalf("two live alternatives should not validate")
	}
	neither, err := node.FromAny(map[string]any{
		"num":  docodec.NoValueSentinel,
		"text": docodec.NoValueSentinel,
	})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, neither) {
		t.Fatalf("no live alternative should not validate")
	}
}

func TestVariant2RejectsMissingAndUnknownKeys(t *testing.T) {
	c := docodec.Variant2Of("num", docodec.Int(), "text", docodec.String())
	missing, err := node.FromAny(map[string]any{"num": 1.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, missing) {
		t.Fatalf("document lacking an alternative key should not validate")
	}
	extra, err := node.FromAny(map[string]any{
		"num": 1.0, "text": docodec.NoValueSentinel, "other": 2.0,
	})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, extra) {
		t.Fatalf("document with unknown key should not validate")
	}
}

func TestVariant3RoundTrip(t *testing.T) {
	c := docodec.Variant3Of("i", docodec.Int(), "s", docodec.String(), "b", docodec.Bool())
	doc := docodec.Serialise(c, docodec.V3C[int, string](true))
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back.Tag != 2 || back.C != true {
		t.Fatalf("want bool alternative true, got %+v", back)
	}
}
