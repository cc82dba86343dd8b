// Package node implements the document tree used as the serialized
// representation: a dynamically typed value that is null, a bool, a number,
// a string, a fixed-order array, or an object with ordered keys.
//
// The tree is deliberately dumb. All shape discipline (which kind a codec may
// write where, capacity checks, error paths) lives in the docodec package;
// node only stores values and answers structural questions.
package node

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates the possible node kinds. A zero Node is Unset until the
// first mutation decides its kind.
type Kind int

const (
	Unset Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one value in a document tree. Child nodes are held by pointer so
// references handed out by Append/Put stay valid while siblings are added.
type Node struct {
	kind  Kind
	boolv bool
	numv  float64
	strv  string
	elems []*Node
	keys  []string
	byKey map[string]*Node
}

// New returns an Unset node ready to receive a value.
func New() *Node { return &Node{} }

func NewNull() *Node             { return &Node{kind: Null} }
func NewBool(b bool) *Node       { return &Node{kind: Bool, boolv: b} }
func NewNumber(f float64) *Node  { return &Node{kind: Number, numv: f} }
func NewString(s string) *Node   { return &Node{kind: String, strv: s} }
func NewArray() *Node            { return &Node{kind: Array} }
func NewObject() *Node           { return &Node{kind: Object, byKey: map[string]*Node{}} }

// Kind reports the node's current kind.
func (n *Node) Kind() Kind { return n.kind }

// IsNull reports whether the node holds the null value.
func (n *Node) IsNull() bool { return n.kind == Null }

// Bool returns the boolean payload. ok is false when the node is not a bool.
func (n *Node) Bool() (v bool, ok bool) {
	if n.kind != Bool {
		return false, false
	}
	return n.boolv, true
}

// Number returns the numeric payload. ok is false when the node is not a number.
func (n *Node) Number() (v float64, ok bool) {
	if n.kind != Number {
		return 0, false
	}
	return n.numv, true
}

// Str returns the string payload. ok is false when the node is not a string.
func (n *Node) Str() (v string, ok bool) {
	if n.kind != String {
		return "", false
	}
	return n.strv, true
}

// SetNull, SetBool, SetNumber and SetString replace the node's payload.
// They do not guard against re-assignment; that is the writer's job.
func (n *Node) SetNull()           { n.reset(Null) }
func (n *Node) SetBool(b bool)     { n.reset(Bool); n.boolv = b }
func (n *Node) SetNumber(f float64) { n.reset(Number); n.numv = f }
func (n *Node) SetString(s string) { n.reset(String); n.strv = s }

func (n *Node) reset(k Kind) {
	n.kind = k
	n.boolv = false
	n.numv = 0
	n.strv = ""
	n.elems = nil
	n.keys = nil
	n.byKey = nil
}

// BeginArray turns the node into an empty array with room for capacity
// elements.
func (n *Node) BeginArray(capacity int) {
	n.reset(Array)
	if capacity > 0 {
		n.elems = make([]*Node, 0, capacity)
	}
}

// Append adds a fresh Unset element to an array node and returns it.
// Returns nil when the node is not an array.
func (n *Node) Append() *Node {
	if n.kind != Array {
		return nil
	}
	e := New()
	n.elems = append(n.elems, e)
	return e
}

// Len returns the element count for arrays and the key count for objects.
func (n *Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.elems)
	case Object:
		return len(n.keys)
	}
	return 0
}

// At returns the i-th array element, or nil when out of range or not an array.
func (n *Node) At(i int) *Node {
	if n.kind != Array || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// BeginObject turns the node into an empty object.
func (n *Node) BeginObject() {
	n.reset(Object)
	n.byKey = map[string]*Node{}
}

// Put inserts a fresh Unset entry under key, preserving insertion order.
// ok is false when the node is not an object or the key already exists.
func (n *Node) Put(key string) (*Node, bool) {
	if n.kind != Object {
		return nil, false
	}
	if _, dup := n.byKey[key]; dup {
		return nil, false
	}
	e := New()
	n.keys = append(n.keys, key)
	n.byKey[key] = e
	return e, true
}

// Get returns the entry stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != Object {
		return nil, false
	}
	e, ok := n.byKey[key]
	return e, ok
}

// Delete removes the entry stored under key, preserving the order of the rest.
func (n *Node) Delete(key string) bool {
	if n.kind != Object {
		return false
	}
	if _, ok := n.byKey[key]; !ok {
		return false
	}
	delete(n.byKey, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the object's keys in insertion order. The returned slice is a
// copy.
func (n *Node) Keys() []string {
	if n.kind != Object {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Equal reports structural equality. Arrays compare element-wise in order;
// objects compare by key set and per-key value, ignoring key order, since the
// interchange encodings (CBOR, YAML) do not all preserve it.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Unset, Null:
		return true
	case Bool:
		return a.boolv == b.boolv
	case Number:
		return a.numv == b.numv
	case String:
		return a.strv == b.strv
	case Array:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for k, av := range a.byKey {
			bv, ok := b.byKey[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{kind: n.kind, boolv: n.boolv, numv: n.numv, strv: n.strv}
	switch n.kind {
	case Array:
		out.elems = make([]*Node, len(n.elems))
		for i, e := range n.elems {
			out.elems[i] = e.Clone()
		}
	case Object:
		out.byKey = make(map[string]*Node, len(n.byKey))
		out.keys = make([]string, len(n.keys))
		copy(out.keys, n.keys)
		for k, e := range n.byKey {
			out.byKey[k] = e.Clone()
		}
	}
	return out
}

// Interface converts the tree into plain Go values (nil, bool, float64,
// string, []any, map[string]any). Object key order is lost; use the JSON
// encoding when order matters.
func (n *Node) Interface() any {
	switch n.kind {
	case Bool:
		return n.boolv
	case Number:
		return n.numv
	case String:
		return n.strv
	case Array:
		out := make([]any, len(n.elems))
		for i, e := range n.elems {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(n.byKey))
		for k, e := range n.byKey {
			out[k] = e.Interface()
		}
		return out
	}
	return nil
}

// FromAny builds a tree from plain Go values as produced by the JSON/CBOR/YAML
// decoders. Map keys are sorted so the result is deterministic.
func FromAny(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case float64:
		return NewNumber(t), nil
	case float32:
		return NewNumber(float64(t)), nil
	case int:
		return NewNumber(float64(t)), nil
	case int64:
		return NewNumber(float64(t)), nil
	case uint64:
		return NewNumber(float64(t)), nil
	case string:
		return NewString(t), nil
	case []any:
		out := NewArray()
		out.elems = make([]*Node, 0, len(t))
		for _, e := range t {
			en, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			out.elems = append(out.elems, en)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewObject()
		for _, k := range keys {
			en, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			out.keys = append(out.keys, k)
			out.byKey[k] = en
		}
		return out, nil
	}
	return nil, fmt.Errorf("node: unsupported value %T", v)
}

// String renders a short single-line description, useful in test failures.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.describe(&b)
	return b.String()
}

func (n *Node) describe(b *strings.Builder) {
	switch n.kind {
	case Unset:
		b.WriteString("<unset>")
	case Null:
		b.WriteString("null")
	case Bool:
		fmt.Fprintf(b, "%t", n.boolv)
	case Number:
		fmt.Fprintf(b, "%g", n.numv)
	case String:
		fmt.Fprintf(b, "%q", n.strv)
	case Array:
		b.WriteByte('[')
		for i, e := range n.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			e.describe(b)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%q:", k)
			n.byKey[k].describe(b)
		}
		b.WriteByte('}')
	}
}
