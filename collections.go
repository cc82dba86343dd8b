package docodec

import (
	"sort"
	"strconv"
)

// Slice returns the codec mapping []T to an array node of any size.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	return sliceCodec[T]{elem: elem}
}

type sliceCodec[T any] struct {
	elem Codec[T]
}

func elemFrameName(i int) string { return "[" + strconv.Itoa(i) + "]" }

func (c sliceCodec[T]) Validate(dc *Context, r *Reader) bool {
	n, ok := r.Size()
	if !ok {
		return false
	}
	valid := true
	for i := 0; i < n; i++ {
		er := r.Pop(elemFrameName(i))
		if er == nil || !c.elem.Validate(dc, er) {
			valid = false
		}
	}
	return valid
}

func (c sliceCodec[T]) Serialise(dc *Context, w *Writer, v []T) bool {
	if !w.SetArray(len(v)) {
		return false
	}
	ok := true
	for i, item := range v {
		ew := w.Push(elemFrameName(i))
		if ew == nil {
			return false
		}
		if !c.elem.Serialise(dc, ew, item) {
			ok = false
		}
		ew.Finish()
	}
	return ok
}

func (c sliceCodec[T]) Deserialise(dc *Context, r *Reader) ([]T, bool) {
	n, ok := r.Size()
	if !ok {
		return nil, false
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		er := r.Pop(elemFrameName(i))
		if er == nil {
			return nil, false
		}
		item, ok := c.elem.Deserialise(dc, er)
		if !ok {
			return nil, false
		}
		out = append(out, item)
	}
	return out, true
}

// FixedSlice returns the codec mapping a []T of exactly size elements to an
// array node of exactly that size. Serialising a slice of the wrong length
// reports a capacity diagnostic and fails.
func FixedSlice[T any](elem Codec[T], size int) Codec[[]T] {
	return fixedSliceCodec[T]{elem: elem, size: size}
}

type fixedSliceCodec[T any] struct {
	elem Codec[T]
	size int
}

func (c fixedSliceCodec[T]) Validate(dc *Context, r *Reader) bool {
	n, ok := r.Size()
	if !ok {
		return false
	}
	if n != c.size {
		r.report(CodeCapacity, "expected exactly "+strconv.Itoa(c.size)+" elements, document has "+strconv.Itoa(n))
		return false
	}
	return sliceCodec[T]{elem: c.elem}.validateSized(dc, r, n)
}

// validateSized validates n elements of an already sized array frame.
func (c sliceCodec[T]) validateSized(dc *Context, r *Reader, n int) bool {
	valid := true
	for i := 0; i < n; i++ {
		er := r.Pop(elemFrameName(i))
		if er == nil || !c.elem.Validate(dc, er) {
			valid = false
		}
	}
	return valid
}

func (c fixedSliceCodec[T]) Serialise(dc *Context, w *Writer, v []T) bool {
	if len(v) != c.size {
		w.report(CodeCapacity, "value has "+strconv.Itoa(len(v))+" elements, codec is fixed at "+strconv.Itoa(c.size))
		return false
	}
	return sliceCodec[T]{elem: c.elem}.Serialise(dc, w, v)
}

func (c fixedSliceCodec[T]) Deserialise(dc *Context, r *Reader) ([]T, bool) {
	n, ok := r.Size()
	if !ok {
		return nil, false
	}
	if n != c.size {
		r.report(CodeCapacity, "expected exactly "+strconv.Itoa(c.size)+" elements, document has "+strconv.Itoa(n))
		return nil, false
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		er := r.Pop(elemFrameName(i))
		if er == nil {
			return nil, false
		}
		item, ok := c.elem.Deserialise(dc, er)
		if !ok {
			return nil, false
		}
		out = append(out, item)
	}
	return out, true
}

// Map returns the codec mapping map[string]V to an object node. Keys are
// written in sorted order so serialisation is deterministic.
func Map[V any](val Codec[V]) Codec[map[string]V] {
	return mapCodec[V]{val: val}
}

type mapCodec[V any] struct {
	val Codec[V]
}

func (c mapCodec[V]) Validate(dc *Context, r *Reader) bool {
	keys, ok := r.Keys()
	if !ok {
		return false
	}
	valid := true
	for _, k := range keys {
		er := r.Key(k)
		if er == nil || !c.val.Validate(dc, er) {
			valid = false
		}
	}
	return valid
}

func (c mapCodec[V]) Serialise(dc *Context, w *Writer, v map[string]V) bool {
	if !w.SetObject() {
		return false
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ok := true
	for _, k := range keys {
		ew := w.Key(k)
		if ew == nil {
			return false
		}
		if !c.val.Serialise(dc, ew, v[k]) {
			ok = false
		}
		ew.Finish()
	}
	return ok
}

func (c mapCodec[V]) Deserialise(dc *Context, r *Reader) (map[string]V, bool) {
	keys, ok := r.Keys()
	if !ok {
		return nil, false
	}
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		er := r.Key(k)
		if er == nil {
			return nil, false
		}
		item, ok := c.val.Deserialise(dc, er)
		if !ok {
			return nil, false
		}
		out[k] = item
	}
	return out, true
}
