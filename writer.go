package docodec

import (
	"strconv"

	"github.com/docodec/docodec/i18n"
	"github.com/docodec/docodec/node"
)

// frameFormat is the shape a Writer/Reader frame has committed to.
type frameFormat int

const (
	formatUnset frameFormat = iota
	formatValue
	formatArray
	formatObject
)

func (f frameFormat) String() string {
	switch f {
	case formatUnset:
		return "unset"
	case formatValue:
		return "value"
	case formatArray:
		return "array"
	case formatObject:
		return "object"
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// Writer is a single-use, single-shape frame over one document node. The
// first write decides the shape (value/array/object); array capacity must be
// declared with SetArray before elements are pushed. Violations degrade to a
// false/nil result and a diagnostic tagged with the frame path; they never
// panic. Finish flags frames that were left incomplete.
type Writer struct {
	ctx      *Context
	n        *node.Node
	parent   *Writer
	name     string
	format   frameFormat
	capacity int
	pushed   int
	valueSet bool
	finished bool
}

// NewWriter opens a root frame over n. Nested frames are created by Push and
// Key; callers never construct them directly.
func NewWriter(ctx *Context, n *node.Node, name string) *Writer {
	return &Writer{ctx: ctx, n: n, name: name}
}

func (w *Writer) child(n *node.Node, name string) *Writer {
	return &Writer{ctx: w.ctx, n: n, parent: w, name: name}
}

// Path returns the slash-joined frame names from the root down to this frame.
func (w *Writer) Path() string {
	if w.parent == nil {
		return w.name
	}
	return w.parent.Path() + "/" + w.name
}

func (w *Writer) report(code, hint string) {
	w.ctx.Report(Issue{Path: w.Path(), Code: code, Message: i18n.T(code, nil), Hint: hint})
}

// Node returns the underlying document node.
func (w *Writer) Node() *node.Node { return w.n }

func (w *Writer) commitValue() bool {
	switch w.format {
	case formatUnset:
		w.format = formatValue
	case formatValue:
		if w.valueSet {
			w.report(CodeWrongShape, "value already written")
			return false
		}
	default:
		w.report(CodeWrongShape, "scalar write on "+w.format.String()+" frame")
		return false
	}
	w.valueSet = true
	return true
}

// WriteNull writes the null value. Implicitly selects the value shape.
func (w *Writer) WriteNull() bool {
	if !w.commitValue() {
		return false
	}
	w.n.SetNull()
	return true
}

// WriteBool writes a boolean scalar. Implicitly selects the value shape.
func (w *Writer) WriteBool(v bool) bool {
	if !w.commitValue() {
		return false
	}
	w.n.SetBool(v)
	return true
}

// WriteNumber writes a numeric scalar. Implicitly selects the value shape.
func (w *Writer) WriteNumber(v float64) bool {
	if !w.commitValue() {
		return false
	}
	w.n.SetNumber(v)
	return true
}

// WriteString writes a string scalar. Implicitly selects the value shape.
func (w *Writer) WriteString(v string) bool {
	if !w.commitValue() {
		return false
	}
	w.n.SetString(v)
	return true
}

// SetArray declares the frame to be an array of exactly capacity elements.
// Must be called before the first Push.
func (w *Writer) SetArray(capacity int) bool {
	if w.format != formatUnset {
		w.report(CodeWrongShape, "array declared on "+w.format.String()+" frame")
		return false
	}
	if capacity < 0 {
		w.report(CodeCapacity, "negative capacity")
		return false
	}
	w.format = formatArray
	w.capacity = capacity
	w.n.BeginArray(capacity)
	return true
}

// Push opens a child frame for the next array element. Returns nil (with a
// diagnostic) when the frame is not a declared array or the declared capacity
// is exhausted.
func (w *Writer) Push(name string) *Writer {
	if w.format != formatArray {
		w.report(CodeWrongShape, "push requires SetArray first")
		return nil
	}
	if w.pushed >= w.capacity {
		w.report(CodeCapacity, "push beyond declared capacity "+strconv.Itoa(w.capacity))
		return nil
	}
	w.pushed++
	return w.child(w.n.Append(), name)
}

// SetObject selects the object shape. Key does this implicitly; an explicit
// call pins the shape for objects that may stay empty.
func (w *Writer) SetObject() bool {
	switch w.format {
	case formatUnset:
		w.format = formatObject
		w.n.BeginObject()
		return true
	case formatObject:
		return true
	}
	w.report(CodeWrongShape, "object selected on "+w.format.String()+" frame")
	return false
}

// Key opens a child frame for the entry stored under label. Implicitly
// selects the object shape. Returns nil (with a diagnostic) on shape
// violations or duplicate labels.
func (w *Writer) Key(label string) *Writer {
	if !w.SetObject() {
		return nil
	}
	e, ok := w.n.Put(label)
	if !ok {
		w.report(CodeDuplicateKey, "label "+strconv.Quote(label))
		return nil
	}
	return w.child(e, label)
}

// Finish closes the frame and reports a diagnostic when it never reached a
// terminal, fully consumed state: an unset frame (a forgotten write) or an
// array with fewer pushes than its declared capacity.
func (w *Writer) Finish() {
	if w.finished {
		return
	}
	w.finished = true
	switch w.format {
	case formatUnset:
		w.report(CodeIncompleteFrame, "nothing was written")
	case formatArray:
		if w.pushed < w.capacity {
			w.report(CodeCapacity, "wrote "+strconv.Itoa(w.pushed)+" of "+strconv.Itoa(w.capacity)+" declared elements")
		}
	}
}
