package class

import (
	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/i18n"
)

// classCodec is the compiled form of a Builder. It implements both
// docodec.Codec[T] and docodec.InPlace[T].
type classCodec[T any] struct {
	typeName string
	fields   []*field[T]
	plan     *plan[T]
	inits    []*initStep[T]
	postSer  func(*ctxT, *docodec.Writer, *T)
	postDes  func(*ctxT, *rdrT, *T)
}

// Validate checks the object shape, rejects unknown keys, validates every
// registered field individually, then runs cross-parameter checks. Field
// diagnostics accumulate; the first cross-check failure stops.
func (c *classCodec[T]) Validate(dc *ctxT, r *rdrT) bool {
	keys, ok := r.Keys()
	if !ok {
		return false
	}
	known := make(map[string]bool, len(c.fields))
	for _, f := range c.fields {
		known[f.label] = true
	}
	valid := true
	for _, k := range keys {
		if !known[k] {
			dc.Report(docodec.Issue{
				Path:    r.Path(),
				Code:    docodec.CodeUnknownKey,
				Message: i18n.T(docodec.CodeUnknownKey, nil),
				Hint:    "label " + k,
			})
			valid = false
		}
	}
	for _, f := range c.fields {
		if !f.validate(dc, r) {
			valid = false
		}
	}
	if !valid {
		return false
	}
	if c.plan != nil && !c.plan.crossValidate(dc, r) {
		return false
	}
	for _, st := range c.inits {
		if !st.crossValidate(dc, r) {
			return false
		}
	}
	return true
}

// Serialise writes every registered field in registration order, then invokes
// the post-serialise hook.
func (c *classCodec[T]) Serialise(dc *ctxT, w *docodec.Writer, v T) bool {
	if !w.SetObject() {
		return false
	}
	ok := true
	for _, f := range c.fields {
		if !f.write(dc, w, &v) {
			ok = false
		}
	}
	if c.postSer != nil {
		c.postSer(dc, w, &v)
	}
	return ok
}

func (c *classCodec[T]) Deserialise(dc *ctxT, r *rdrT) (T, bool) {
	var out T
	if !c.DeserialiseInto(dc, r, &out) {
		var zero T
		return zero, false
	}
	return out, true
}

// DeserialiseInto runs the construction plan (or starts from the zero value),
// applies initialisation steps in registration order, assigns registered
// variables, then invokes the post-deserialise hook.
func (c *classCodec[T]) DeserialiseInto(dc *ctxT, r *rdrT, dst *T) bool {
	if c.plan != nil {
		p, ok := c.plan.build(dc, r)
		if !ok {
			return false
		}
		*dst = *p
	} else {
		var zero T
		*dst = zero
	}
	for _, st := range c.inits {
		if !st.apply(dc, r, dst) {
			return false
		}
	}
	for _, f := range c.fields {
		if f.assign != nil && !f.assign(dc, r, dst) {
			return false
		}
	}
	if c.postDes != nil {
		c.postDes(dc, r, dst)
	}
	return true
}
