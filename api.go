package docodec

import (
	"github.com/docodec/docodec/internal/typename"
	"github.com/docodec/docodec/node"
)

// Codec is the Validate/Serialise/Deserialise triple for one type. Codec
// values are stateless; per-operation state lives in the Context and the
// Writer/Reader frames. Resolution is static: callers hold the codec value
// for T, there is no runtime type registry.
//
// Validate answers whether the frame's document could be deserialized into T.
// Serialise writes v into the frame and reports success. Deserialise rebuilds
// a value; its bool is false only on documents Validate would reject.
type Codec[T any] interface {
	Validate(dc *Context, r *Reader) bool
	Serialise(dc *Context, w *Writer, v T) bool
	Deserialise(dc *Context, r *Reader) (T, bool)
}

// InPlace is the optional in-place construction contract. Codecs built by the
// class builder implement it; the unique-ownership codec prefers it to avoid
// copying freshly allocated values.
type InPlace[T any] interface {
	DeserialiseInto(dc *Context, r *Reader, dst *T) bool
}

// Validate reports whether doc is convertible into T, using a fresh Context.
func Validate[T any](c Codec[T], doc *node.Node) bool {
	return ValidateWith(NewContext(), c, doc)
}

// ValidateWith is Validate with a caller-owned Context; diagnostics explaining
// a rejection are available via dc.Issues afterwards.
func ValidateWith[T any](dc *Context, c Codec[T], doc *node.Node) bool {
	return c.Validate(dc, NewReader(dc, doc, typename.Of[T]()))
}

// Serialise produces the self-describing document for v, using a fresh
// Context.
func Serialise[T any](c Codec[T], v T) *node.Node {
	return SerialiseWith(NewContext(), c, v)
}

// SerialiseWith is Serialise with a caller-owned Context. The document is
// returned even when diagnostics were reported; callers that care inspect
// dc.Issues.
func SerialiseWith[T any](dc *Context, c Codec[T], v T) *node.Node {
	n := node.New()
	w := NewWriter(dc, n, typename.Of[T]())
	c.Serialise(dc, w, v)
	w.Finish()
	return n
}

// Deserialise validates doc and reconstructs a T. The error is non-nil
// exactly when Validate would return false; it carries the diagnostics that
// explain the rejection.
func Deserialise[T any](c Codec[T], doc *node.Node) (T, error) {
	return DeserialiseWith(NewContext(), c, doc)
}

// DeserialiseWith is Deserialise with a caller-owned Context. Threading one
// Context through several calls preserves shared-ownership identity across
// them.
func DeserialiseWith[T any](dc *Context, c Codec[T], doc *node.Node) (T, error) {
	var zero T
	if !ValidateWith(dc, c, doc) {
		iss := dc.Issues()
		if len(iss) == 0 {
			iss = Issues{{Path: typename.Of[T](), Code: CodeInvalidValue, Message: "document rejected"}}
		}
		return zero, iss
	}
	v, ok := c.Deserialise(dc, NewReader(dc, doc, typename.Of[T]()))
	if !ok {
		iss := dc.Issues()
		if len(iss) == 0 {
			iss = Issues{{Path: typename.Of[T](), Code: CodeInvalidValue, Message: "deserialise failed after validation"}}
		}
		return zero, iss
	}
	return v, nil
}

// DeserialiseUnchecked reconstructs a T without validating first. It is meant
// for callers that already validated; on an invalid document it panics with
// the collected diagnostics.
func DeserialiseUnchecked[T any](c Codec[T], doc *node.Node) T {
	return DeserialiseUncheckedWith(NewContext(), c, doc)
}

// DeserialiseUncheckedWith is DeserialiseUnchecked with a caller-owned
// Context.
func DeserialiseUncheckedWith[T any](dc *Context, c Codec[T], doc *node.Node) T {
	v, ok := c.Deserialise(dc, NewReader(dc, doc, typename.Of[T]()))
	if !ok {
		panic("docodec: unchecked deserialise of invalid document: " + dc.Issues().Error())
	}
	return v
}
