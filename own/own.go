// Package own wraps a value codec with pointer-ownership semantics.
//
// Unique maps *T to the wrapped value's own document, with a reserved
// sentinel string for nil; every deserialisation allocates a fresh instance.
// Shared maps *T to an identity-carrying envelope so that several references
// to one instance deserialise back to one instance, as long as they are read
// through the same Context. The two layouts are deliberately incompatible: a
// unique document never validates against a shared codec and vice versa.
package own

import (
	"reflect"
	"regexp"
	"strconv"
	"weak"

	"github.com/zeebo/blake3"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/i18n"
	"github.com/docodec/docodec/internal/typename"
	"github.com/docodec/docodec/node"
)

// NullSentinel is the reserved string standing in for a nil pointer. Like the
// no-value sentinel it is reserved: a wrapped string equal to it reads back
// as nil.
const NullSentinel = "<null>"

// PtrKey and PayloadKey are the labels of the shared-ownership envelope.
const (
	PtrKey     = "ptr"
	PayloadKey = "wrappedType"
)

var ptrPattern = regexp.MustCompile(`^(0|[1-9][0-9]{0,19})$`)

func isNullSentinel(r *docodec.Reader) bool {
	if r.PeekKind() != node.String {
		return false
	}
	s, _ := r.Node().Str()
	return s == NullSentinel
}

// deserialiseInto prefers the in-place contract so freshly allocated
// instances are filled where they sit.
func deserialiseInto[T any](dc *docodec.Context, r *docodec.Reader, inner docodec.Codec[T], dst *T) bool {
	if ip, ok := inner.(docodec.InPlace[T]); ok {
		return ip.DeserialiseInto(dc, r, dst)
	}
	v, ok := inner.Deserialise(dc, r)
	if !ok {
		return false
	}
	*dst = v
	return true
}

// Unique returns the codec mapping an owning *T to the wrapped value's
// document. nil serialises as the null sentinel; deserialising always builds
// a new instance.
func Unique[T any](inner docodec.Codec[T]) docodec.Codec[*T] {
	return uniqueCodec[T]{inner: inner}
}

type uniqueCodec[T any] struct {
	inner docodec.Codec[T]
}

func (c uniqueCodec[T]) Validate(dc *docodec.Context, r *docodec.Reader) bool {
	if isNullSentinel(r) {
		return true
	}
	return c.inner.Validate(dc, r)
}

func (c uniqueCodec[T]) Serialise(dc *docodec.Context, w *docodec.Writer, v *T) bool {
	if v == nil {
		return w.WriteString(NullSentinel)
	}
	return c.inner.Serialise(dc, w, *v)
}

func (c uniqueCodec[T]) Deserialise(dc *docodec.Context, r *docodec.Reader) (*T, bool) {
	if isNullSentinel(r) {
		return nil, true
	}
	p := new(T)
	if !deserialiseInto(dc, r, c.inner, p) {
		return nil, false
	}
	return p, true
}

// Nullable adapts a codec over an interface or pointer base type so that nil
// serialises as the null sentinel. Useful around a polymorphic codec, whose
// match predicates never see nil.
func Nullable[B any](inner docodec.Codec[B]) docodec.Codec[B] {
	return nullableCodec[B]{inner: inner}
}

type nullableCodec[B any] struct {
	inner docodec.Codec[B]
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (c nullableCodec[B]) Validate(dc *docodec.Context, r *docodec.Reader) bool {
	if isNullSentinel(r) {
		return true
	}
	return c.inner.Validate(dc, r)
}

func (c nullableCodec[B]) Serialise(dc *docodec.Context, w *docodec.Writer, v B) bool {
	if isNilValue(v) {
		return w.WriteString(NullSentinel)
	}
	return c.inner.Serialise(dc, w, v)
}

func (c nullableCodec[B]) Deserialise(dc *docodec.Context, r *docodec.Reader) (B, bool) {
	var zero B
	if isNullSentinel(r) {
		return zero, true
	}
	return c.inner.Deserialise(dc, r)
}

// Shared returns the codec mapping a shared *T to an envelope carrying the
// source pointer identity next to the wrapped value's document. Deserialising
// the same identity twice through one Context yields the same instance; a
// fresh Context, or the same identity with edited payload bytes, yields a
// distinct one.
func Shared[T any](inner docodec.Codec[T]) docodec.Codec[*T] {
	return sharedCodec[T]{inner: inner, cacheName: "shared/" + typename.Of[T]()}
}

type sharedCodec[T any] struct {
	inner     docodec.Codec[T]
	cacheName string
}

// identityCache maps source pointer identity, then payload fingerprint, to a
// weak reference. Weak so a cache entry never keeps an instance alive on its
// own.
type identityCache[T any] map[string]map[[32]byte]weak.Pointer[T]

func (c sharedCodec[T]) Validate(dc *docodec.Context, r *docodec.Reader) bool {
	if isNullSentinel(r) {
		return true
	}
	keys, ok := r.Keys()
	if !ok {
		return false
	}
	valid := true
	for _, k := range keys {
		if k != PtrKey && k != PayloadKey {
			dc.Report(docodec.Issue{
				Path:    r.Path(),
				Code:    docodec.CodeUnknownKey,
				Message: i18n.T(docodec.CodeUnknownKey, nil),
				Hint:    "label " + k,
			})
			valid = false
		}
	}
	pr := r.Key(PtrKey)
	if pr == nil {
		return false
	}
	id, ok := pr.ReadString()
	if !ok {
		return false
	}
	if !ptrPattern.MatchString(id) {
		dc.Report(docodec.Issue{
			Path:    pr.Path(),
			Code:    docodec.CodePattern,
			Message: i18n.T(docodec.CodePattern, nil),
			Hint:    "expected a decimal pointer identity",
		})
		valid = false
	}
	wr := r.Key(PayloadKey)
	if wr == nil {
		return false
	}
	if !c.inner.Validate(dc, wr) {
		valid = false
	}
	return valid
}

func (c sharedCodec[T]) Serialise(dc *docodec.Context, w *docodec.Writer, v *T) bool {
	if v == nil {
		return w.WriteString(NullSentinel)
	}
	if !w.SetObject() {
		return false
	}
	pw := w.Key(PtrKey)
	if pw == nil {
		return false
	}
	pw.WriteString(strconv.FormatUint(uint64(reflect.ValueOf(v).Pointer()), 10))
	pw.Finish()
	ww := w.Key(PayloadKey)
	if ww == nil {
		return false
	}
	ok := c.inner.Serialise(dc, ww, *v)
	ww.Finish()
	return ok
}

// fingerprint hashes the payload subtree's canonical byte form. Identity plus
// fingerprint is the cache key, so an envelope whose payload was edited after
// serialisation does not alias the original instance.
func fingerprint(n *node.Node) ([32]byte, bool) {
	data, err := node.EncodeJSON(n)
	if err != nil {
		return [32]byte{}, false
	}
	return blake3.Sum256(data), true
}

func (c sharedCodec[T]) Deserialise(dc *docodec.Context, r *docodec.Reader) (*T, bool) {
	if isNullSentinel(r) {
		return nil, true
	}
	pr := r.Key(PtrKey)
	if pr == nil {
		return nil, false
	}
	id, ok := pr.ReadString()
	if !ok {
		return nil, false
	}
	wr := r.Key(PayloadKey)
	if wr == nil {
		return nil, false
	}
	fp, ok := fingerprint(wr.Node())
	if !ok {
		dc.Report(docodec.Issue{
			Path:    wr.Path(),
			Code:    docodec.CodeInvalidValue,
			Message: i18n.T(docodec.CodeInvalidValue, nil),
			Hint:    "payload is not fingerprintable",
		})
		return nil, false
	}
	cache := docodec.CacheOf[identityCache[T]](dc, c.cacheName)
	if *cache == nil {
		*cache = identityCache[T]{}
	}
	if wp, ok := (*cache)[id][fp]; ok {
		if p := wp.Value(); p != nil {
			return p, true
		}
	}
	p := new(T)
	if !deserialiseInto(dc, wr, c.inner, p) {
		return nil, false
	}
	byFp := (*cache)[id]
	if byFp == nil {
		byFp = map[[32]byte]weak.Pointer[T]{}
		(*cache)[id] = byFp
	}
	byFp[fp] = weak.Make(p)
	return p, true
}
