package docodec

import (
	"strconv"

	"github.com/docodec/docodec/i18n"
	"github.com/docodec/docodec/node"
)

// Reader is the read-side frame over one document node. It mirrors the
// Writer's discipline: single shape, first access wins, array capacity must
// be read via Size before elements are popped. Violations report a
// path-tagged diagnostic and return a failure value instead of panicking.
type Reader struct {
	dc      *Context
	n       *node.Node
	parent  *Reader
	name    string
	format  frameFormat
	sized   bool
	nextIdx int
	claimed map[string]bool
}

// NewReader opens a root frame over n. Nested frames come from Pop and Key.
func NewReader(dc *Context, n *node.Node, name string) *Reader {
	return &Reader{dc: dc, n: n, name: name}
}

func (r *Reader) child(n *node.Node, name string) *Reader {
	return &Reader{dc: r.dc, n: n, parent: r, name: name}
}

// Path returns the slash-joined frame names from the root down to this frame.
func (r *Reader) Path() string {
	if r.parent == nil {
		return r.name
	}
	return r.parent.Path() + "/" + r.name
}

func (r *Reader) report(code, hint string) {
	r.dc.Report(Issue{Path: r.Path(), Code: code, Message: i18n.T(code, nil), Hint: hint})
}

// Node returns the underlying document node. The shared-ownership codec uses
// it to fingerprint a subtree; ordinary codecs have no business with it.
func (r *Reader) Node() *node.Node { return r.n }

// PeekKind reports the node kind without committing the frame to a shape.
func (r *Reader) PeekKind() node.Kind { return r.n.Kind() }

func (r *Reader) commitValue() bool {
	switch r.format {
	case formatUnset:
		r.format = formatValue
		return true
	case formatValue:
		return true
	}
	r.report(CodeWrongShape, "scalar read on "+r.format.String()+" frame")
	return false
}

// ReadNull reports whether the node holds null. Implicitly selects the value
// shape.
func (r *Reader) ReadNull() bool {
	if !r.commitValue() {
		return false
	}
	if !r.n.IsNull() {
		r.report(CodeWrongShape, "expected null, node is "+r.n.Kind().String())
		return false
	}
	return true
}

// ReadBool reads a boolean scalar.
func (r *Reader) ReadBool() (bool, bool) {
	if !r.commitValue() {
		return false, false
	}
	v, ok := r.n.Bool()
	if !ok {
		r.report(CodeWrongShape, "expected bool, node is "+r.n.Kind().String())
	}
	return v, ok
}

// ReadNumber reads a numeric scalar.
func (r *Reader) ReadNumber() (float64, bool) {
	if !r.commitValue() {
		return 0, false
	}
	v, ok := r.n.Number()
	if !ok {
		r.report(CodeWrongShape, "expected number, node is "+r.n.Kind().String())
	}
	return v, ok
}

// ReadString reads a string scalar.
func (r *Reader) ReadString() (string, bool) {
	if !r.commitValue() {
		return "", false
	}
	v, ok := r.n.Str()
	if !ok {
		r.report(CodeWrongShape, "expected string, node is "+r.n.Kind().String())
	}
	return v, ok
}

// Size commits the frame to the array shape and returns the element count.
// It must be called before the first Pop.
func (r *Reader) Size() (int, bool) {
	switch r.format {
	case formatUnset:
		if r.n.Kind() != node.Array {
			r.report(CodeWrongShape, "expected array, node is "+r.n.Kind().String())
			return 0, false
		}
		r.format = formatArray
		r.sized = true
		return r.n.Len(), true
	case formatArray:
		return r.n.Len(), true
	}
	r.report(CodeWrongShape, "size read on "+r.format.String()+" frame")
	return 0, false
}

// Pop opens a child frame over the next array element. Size must have been
// read first; popping past the available elements reports a capacity
// diagnostic and returns nil.
func (r *Reader) Pop(name string) *Reader {
	if r.format != formatArray || !r.sized {
		r.report(CodeCapacity, "pop requires Size first")
		return nil
	}
	if r.nextIdx >= r.n.Len() {
		r.report(CodeCapacity, "pop beyond available "+strconv.Itoa(r.n.Len())+" elements")
		return nil
	}
	e := r.n.At(r.nextIdx)
	r.nextIdx++
	return r.child(e, name)
}

func (r *Reader) commitObject() bool {
	switch r.format {
	case formatUnset:
		if r.n.Kind() != node.Object {
			r.report(CodeWrongShape, "expected object, node is "+r.n.Kind().String())
			return false
		}
		r.format = formatObject
		return true
	case formatObject:
		return true
	}
	r.report(CodeWrongShape, "object access on "+r.format.String()+" frame")
	return false
}

// Key opens a child frame over the entry stored under label, reporting a
// missing-key diagnostic when absent. Implicitly selects the object shape.
func (r *Reader) Key(label string) *Reader {
	if !r.commitObject() {
		return nil
	}
	e, ok := r.n.Get(label)
	if !ok {
		r.report(CodeMissingKey, "label "+strconv.Quote(label))
		return nil
	}
	return r.child(e, label)
}

// Has reports whether label is present, without a diagnostic on absence.
func (r *Reader) Has(label string) bool {
	if !r.commitObject() {
		return false
	}
	_, ok := r.n.Get(label)
	return ok
}

// Claim marks label as consumed by an enclosing codec so that Keys no longer
// reports it. The polymorphic dispatcher claims its type-name tag this way
// before delegating to the concrete codec, whose unknown-key check must not
// see the tag.
func (r *Reader) Claim(label string) {
	if r.claimed == nil {
		r.claimed = map[string]bool{}
	}
	r.claimed[label] = true
}

// Keys returns the object's unclaimed keys in document order.
func (r *Reader) Keys() ([]string, bool) {
	if !r.commitObject() {
		return nil, false
	}
	all := r.n.Keys()
	if len(r.claimed) == 0 {
		return all, true
	}
	out := all[:0]
	for _, k := range all {
		if !r.claimed[k] {
			out = append(out, k)
		}
	}
	return out, true
}

// Finish closes the frame; an array with unread elements reports an
// incomplete-frame diagnostic.
func (r *Reader) Finish() {
	if r.format == formatArray && r.sized && r.nextIdx < r.n.Len() {
		r.report(CodeIncompleteFrame, "read "+strconv.Itoa(r.nextIdx)+" of "+strconv.Itoa(r.n.Len())+" elements")
	}
}
