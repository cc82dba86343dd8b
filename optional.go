package docodec

import "github.com/docodec/docodec/node"

// NoValueSentinel is the reserved string standing in for "no value" in
// optional and variant documents. It is reserved: a string value equal to the
// sentinel cannot be distinguished from absence and is read back as absence.
const NoValueSentinel = "<no value>"

// Optional is a value that may be absent.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Present: true} }

// None is the absent value.
func None[T any]() Optional[T] { return Optional[T]{} }

// OptionalOf returns the codec mapping Optional[T] to either the reserved
// no-value sentinel string or the wrapped value's own document.
func OptionalOf[T any](inner Codec[T]) Codec[Optional[T]] {
	return optionalCodec[T]{inner: inner}
}

type optionalCodec[T any] struct {
	inner Codec[T]
}

func isSentinel(r *Reader) bool {
	if r.PeekKind() != node.String {
		return false
	}
	s, _ := r.Node().Str()
	return s == NoValueSentinel
}

func (c optionalCodec[T]) Validate(dc *Context, r *Reader) bool {
	if isSentinel(r) {
		return true
	}
	return c.inner.Validate(dc, r)
}

func (c optionalCodec[T]) Serialise(dc *Context, w *Writer, v Optional[T]) bool {
	if !v.Present {
		return w.WriteString(NoValueSentinel)
	}
	return c.inner.Serialise(dc, w, v.Value)
}

func (c optionalCodec[T]) Deserialise(dc *Context, r *Reader) (Optional[T], bool) {
	if isSentinel(r) {
		return None[T](), true
	}
	v, ok := c.inner.Deserialise(dc, r)
	if !ok {
		return None[T](), false
	}
	return Some(v), true
}
