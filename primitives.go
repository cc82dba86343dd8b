package docodec

import (
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// maxSafeNumber is the largest integer magnitude a number node represents
// exactly. Wider integer types serialize as decimal strings instead.
const maxSafeNumber = float64(1 << 53)

// Decimal-string patterns for the oversized integer encodings. Precision is
// bounded: 19 digits cover the int64 range, 20 the uint64 range.
var (
	int64Pattern  = regexp.MustCompile(`^-?(0|[1-9][0-9]{0,18})$`)
	uint64Pattern = regexp.MustCompile(`^(0|[1-9][0-9]{0,19})$`)
)

// Bool returns the codec mapping bool to a boolean scalar node.
func Bool() Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadBool()
	return ok
}

func (boolCodec) Serialise(dc *Context, w *Writer, v bool) bool {
	return w.WriteBool(v)
}

func (boolCodec) Deserialise(dc *Context, r *Reader) (bool, bool) {
	return r.ReadBool()
}

// Int returns the codec mapping int to a numeric scalar node. Values beyond
// the node's exact integer range are rejected at serialise and validate time;
// use Int64 for the full 64-bit range.
func Int() Codec[int] { return intCodec{} }

type intCodec struct{}

func validInteger(r *Reader) (float64, bool) {
	f, ok := r.ReadNumber()
	if !ok {
		return 0, false
	}
	if math.Trunc(f) != f || math.Abs(f) > maxSafeNumber {
		r.report(CodeInvalidValue, "expected integer within exact range")
		return 0, false
	}
	return f, true
}

func (intCodec) Validate(dc *Context, r *Reader) bool {
	_, ok := validInteger(r)
	return ok
}

func (intCodec) Serialise(dc *Context, w *Writer, v int) bool {
	f := float64(v)
	if math.Abs(f) > maxSafeNumber {
		w.report(CodeInvalidValue, "int exceeds exact numeric range; use Int64")
		return false
	}
	return w.WriteNumber(f)
}

func (intCodec) Deserialise(dc *Context, r *Reader) (int, bool) {
	f, ok := validInteger(r)
	return int(f), ok
}

// Int64 returns the codec mapping int64 to a decimal-string node, preserving
// the full range the number node cannot represent exactly.
func Int64() Codec[int64] { return int64Codec{} }

type int64Codec struct{}

func (int64Codec) Validate(dc *Context, r *Reader) bool {
	s, ok := r.ReadString()
	if !ok {
		return false
	}
	if !int64Pattern.MatchString(s) {
		r.report(CodePattern, "expected decimal int64 string")
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		r.report(CodeInvalidValue, "int64 out of range")
		return false
	}
	return true
}

func (int64Codec) Serialise(dc *Context, w *Writer, v int64) bool {
	return w.WriteString(strconv.FormatInt(v, 10))
}

func (int64Codec) Deserialise(dc *Context, r *Reader) (int64, bool) {
	s, ok := r.ReadString()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.report(CodeInvalidValue, "int64 out of range")
		return 0, false
	}
	return v, true
}

// Uint64 returns the codec mapping uint64 to a decimal-string node.
func Uint64() Codec[uint64] { return uint64Codec{} }

type uint64Codec struct{}

func (uint64Codec) Validate(dc *Context, r *Reader) bool {
	s, ok := r.ReadString()
	if !ok {
		return false
	}
	if !uint64Pattern.MatchString(s) {
		r.report(CodePattern, "expected decimal uint64 string")
		return false
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		r.report(CodeInvalidValue, "uint64 out of range")
		return false
	}
	return true
}

func (uint64Codec) Serialise(dc *Context, w *Writer, v uint64) bool {
	return w.WriteString(strconv.FormatUint(v, 10))
}

func (uint64Codec) Deserialise(dc *Context, r *Reader) (uint64, bool) {
	s, ok := r.ReadString()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		r.report(CodeInvalidValue, "uint64 out of range")
		return 0, false
	}
	return v, true
}

// Float64 returns the codec mapping float64 to a numeric scalar node.
func Float64() Codec[float64] { return float64Codec{} }

type float64Codec struct{}

func (float64Codec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadNumber()
	return ok
}

func (float64Codec) Serialise(dc *Context, w *Writer, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.report(CodeInvalidValue, "non-finite float")
		return false
	}
	return w.WriteNumber(v)
}

func (float64Codec) Deserialise(dc *Context, r *Reader) (float64, bool) {
	return r.ReadNumber()
}

// Float32 returns the codec mapping float32 to a numeric scalar node.
func Float32() Codec[float32] { return float32Codec{} }

type float32Codec struct{}

func (float32Codec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadNumber()
	return ok
}

func (float32Codec) Serialise(dc *Context, w *Writer, v float32) bool {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.report(CodeInvalidValue, "non-finite float")
		return false
	}
	return w.WriteNumber(f)
}

func (float32Codec) Deserialise(dc *Context, r *Reader) (float32, bool) {
	f, ok := r.ReadNumber()
	return float32(f), ok
}

// String returns the codec mapping string to a string scalar node.
func String() Codec[string] { return stringCodec{} }

type stringCodec struct{}

func (stringCodec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadString()
	return ok
}

func (stringCodec) Serialise(dc *Context, w *Writer, v string) bool {
	return w.WriteString(v)
}

func (stringCodec) Deserialise(dc *Context, r *Reader) (string, bool) {
	return r.ReadString()
}

// Rune returns the codec mapping a single character to a one-rune string
// node.
func Rune() Codec[rune] { return runeCodec{} }

type runeCodec struct{}

func (runeCodec) Validate(dc *Context, r *Reader) bool {
	s, ok := r.ReadString()
	if !ok {
		return false
	}
	if utf8.RuneCountInString(s) != 1 {
		r.report(CodeInvalidValue, "expected exactly one character")
		return false
	}
	return true
}

func (runeCodec) Serialise(dc *Context, w *Writer, v rune) bool {
	return w.WriteString(string(v))
}

func (runeCodec) Deserialise(dc *Context, r *Reader) (rune, bool) {
	s, ok := r.ReadString()
	if !ok || utf8.RuneCountInString(s) != 1 {
		if ok {
			r.report(CodeInvalidValue, "expected exactly one character")
		}
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, true
}

// Runes returns the codec mapping []rune to a string node.
func Runes() Codec[[]rune] { return runesCodec{} }

type runesCodec struct{}

func (runesCodec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadString()
	return ok
}

func (runesCodec) Serialise(dc *Context, w *Writer, v []rune) bool {
	return w.WriteString(string(v))
}

func (runesCodec) Deserialise(dc *Context, r *Reader) ([]rune, bool) {
	s, ok := r.ReadString()
	if !ok {
		return nil, false
	}
	return []rune(s), true
}

// Bytes returns the codec mapping []byte to a string node. Content must be
// valid UTF-8 to survive the JSON bridge.
func Bytes() Codec[[]byte] { return bytesCodec{} }

type bytesCodec struct{}

func (bytesCodec) Validate(dc *Context, r *Reader) bool {
	_, ok := r.ReadString()
	return ok
}

func (bytesCodec) Serialise(dc *Context, w *Writer, v []byte) bool {
	return w.WriteString(string(v))
}

func (bytesCodec) Deserialise(dc *Context, r *Reader) ([]byte, bool) {
	s, ok := r.ReadString()
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

// Integer constrains the underlying types the Enum codec accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// Enum returns the codec mapping an enumerated type to its underlying integer
// encoding in a numeric scalar node.
func Enum[T Integer]() Codec[T] { return enumCodec[T]{} }

type enumCodec[T Integer] struct{}

func (enumCodec[T]) Validate(dc *Context, r *Reader) bool {
	_, ok := validInteger(r)
	return ok
}

func (enumCodec[T]) Serialise(dc *Context, w *Writer, v T) bool {
	f := float64(v)
	if math.Abs(f) > maxSafeNumber {
		w.report(CodeInvalidValue, "enum value exceeds exact numeric range")
		return false
	}
	return w.WriteNumber(f)
}

func (enumCodec[T]) Deserialise(dc *Context, r *Reader) (T, bool) {
	f, ok := validInteger(r)
	return T(f), ok
}
