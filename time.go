package docodec

import "time"

// TimeRFC3339 returns the codec mapping time.Time to a canonical RFC3339
// string node (UTC, nanosecond precision with trailing zeros trimmed).
func TimeRFC3339() Codec[time.Time] { return timeCodec{} }

type timeCodec struct{}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional).
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func (timeCodec) Validate(dc *Context, r *Reader) bool {
	s, ok := r.ReadString()
	if !ok {
		return false
	}
	if _, err := parseRFC3339(s); err != nil {
		r.report(CodePattern, "expected RFC3339 timestamp")
		return false
	}
	return true
}

func (timeCodec) Serialise(dc *Context, w *Writer, v time.Time) bool {
	// Normalize to UTC; RFC3339Nano trims trailing zeros.
	return w.WriteString(v.UTC().Format(time.RFC3339Nano))
}

func (timeCodec) Deserialise(dc *Context, r *Reader) (time.Time, bool) {
	s, ok := r.ReadString()
	if !ok {
		return time.Time{}, false
	}
	t, err := parseRFC3339(s)
	if err != nil {
		r.report(CodePattern, "expected RFC3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}
