package docodec

// Variant2 is a closed sum over two alternatives. Tag selects the live one.
type Variant2[A, B any] struct {
	Tag int // 0 selects A, 1 selects B.
	A   A
	B   B
}

// V2A and V2B construct Variant2 values with the matching alternative live.
func V2A[A, B any](v A) Variant2[A, B] { return Variant2[A, B]{Tag: 0, A: v} }
func V2B[A, B any](v B) Variant2[A, B] { return Variant2[A, B]{Tag: 1, B: v} }

// Variant2Of returns the codec mapping Variant2 to an object with one labeled
// entry per alternative; every entry except the live one holds the reserved
// no-value sentinel.
func Variant2Of[A, B any](aLabel string, ac Codec[A], bLabel string, bc Codec[B]) Codec[Variant2[A, B]] {
	return variant2Codec[A, B]{aLabel: aLabel, ac: ac, bLabel: bLabel, bc: bc}
}

type variant2Codec[A, B any] struct {
	aLabel string
	ac     Codec[A]
	bLabel string
	bc     Codec[B]
}

// altState classifies one alternative's entry: absent key, sentinel, or live.
type altState int

const (
	altMissing altState = iota
	altEmpty
	altLive
)

func classifyAlt(r *Reader, label string) (*Reader, altState) {
	if !r.Has(label) {
		r.report(CodeMissingKey, "label "+label)
		return nil, altMissing
	}
	ar := r.Key(label)
	if isSentinel(ar) {
		return ar, altEmpty
	}
	return ar, altLive
}

func (c variant2Codec[A, B]) Validate(dc *Context, r *Reader) bool {
	keys, ok := r.Keys()
	if !ok {
		return false
	}
	for _, k := range keys {
		if k != c.aLabel && k != c.bLabel {
			r.report(CodeUnknownKey, "label "+k)
			return false
		}
	}
	ar, as := classifyAlt(r, c.aLabel)
	br, bs := classifyAlt(r, c.bLabel)
	if as == altMissing || bs == altMissing {
		return false
	}
	live := 0
	if as == altLive {
		live++
	}
	if bs == altLive {
		live++
	}
	if live != 1 {
		r.report(CodeInvalidValue, "exactly one alternative must be live")
		return false
	}
	if as == altLive {
		return c.ac.Validate(dc, ar)
	}
	return c.bc.Validate(dc, br)
}

func (c variant2Codec[A, B]) Serialise(dc *Context, w *Writer, v Variant2[A, B]) bool {
	if !w.SetObject() {
		return false
	}
	aw := w.Key(c.aLabel)
	bw := w.Key(c.bLabel)
	if aw == nil || bw == nil {
		return false
	}
	ok := true
	switch v.Tag {
	case 0:
		ok = c.ac.Serialise(dc, aw, v.A)
		bw.WriteString(NoValueSentinel)
	case 1:
		aw.WriteString(NoValueSentinel)
		ok = c.bc.Serialise(dc, bw, v.B)
	default:
		w.report(CodeInvalidValue, "variant tag out of range")
		ok = false
	}
	aw.Finish()
	bw.Finish()
	return ok
}

func (c variant2Codec[A, B]) Deserialise(dc *Context, r *Reader) (Variant2[A, B], bool) {
	var out Variant2[A, B]
	ar, as := classifyAlt(r, c.aLabel)
	br, bs := classifyAlt(r, c.bLabel)
	if as == altMissing || bs == altMissing {
		return out, false
	}
	switch {
	case as == altLive:
		v, ok := c.ac.Deserialise(dc, ar)
		if !ok {
			return out, false
		}
		return V2A[A, B](v), true
	case bs == altLive:
		v, ok := c.bc.Deserialise(dc, br)
		if !ok {
			return out, false
		}
		return V2B[A, B](v), true
	}
	r.report(CodeInvalidValue, "no live alternative")
	return out, false
}

// Variant3 is a closed sum over three alternatives.
type Variant3[A, B, C any] struct {
	Tag int // 0 selects A, 1 selects B, 2 selects C.
	A   A
	B   B
	C   C
}

func V3A[A, B, C any](v A) Variant3[A, B, C] { return Variant3[A, B, C]{Tag: 0, A: v} }
func V3B[A, B, C any](v B) Variant3[A, B, C] { return Variant3[A, B, C]{Tag: 1, B: v} }
func V3C[A, B, C any](v C) Variant3[A, B, C] { return Variant3[A, B, C]{Tag: 2, C: v} }

// Variant3Of is Variant2Of for three alternatives.
func Variant3Of[A, B, C any](aLabel string, ac Codec[A], bLabel string, bc Codec[B], cLabel string, cc Codec[C]) Codec[Variant3[A, B, C]] {
	return variant3Codec[A, B, C]{aLabel: aLabel, ac: ac, bLabel: bLabel, bc: bc, cLabel: cLabel, cc: cc}
}

type variant3Codec[A, B, C any] struct {
	aLabel string
	ac     Codec[A]
	bLabel string
	bc     Codec[B]
	cLabel string
	cc     Codec[C]
}

func (c variant3Codec[A, B, C]) Validate(dc *Context, r *Reader) bool {
	keys, ok := r.Keys()
	if !ok {
		return false
	}
	for _, k := range keys {
		if k != c.aLabel && k != c.bLabel && k != c.cLabel {
			r.report(CodeUnknownKey, "label "+k)
			return false
		}
	}
	ar, as := classifyAlt(r, c.aLabel)
	br, bs := classifyAlt(r, c.bLabel)
	cr, cs := classifyAlt(r, c.cLabel)
	if as == altMissing || bs == altMissing || cs == altMissing {
		return false
	}
	live := 0
	for _, s := range []altState{as, bs, cs} {
		if s == altLive {
			live++
		}
	}
	if live != 1 {
		r.report(CodeInvalidValue, "exactly one alternative must be live")
		return false
	}
	switch {
	case as == altLive:
		return c.ac.Validate(dc, ar)
	case bs == altLive:
		return c.bc.Validate(dc, br)
	default:
		return c.cc.Validate(dc, cr)
	}
}

func (c variant3Codec[A, B, C]) Serialise(dc *Context, w *Writer, v Variant3[A, B, C]) bool {
	if !w.SetObject() {
		return false
	}
	aw := w.Key(c.aLabel)
	bw := w.Key(c.bLabel)
	cw := w.Key(c.cLabel)
	if aw == nil || bw == nil || cw == nil {
		return false
	}
	ok := true
	switch v.Tag {
	case 0:
		ok = c.ac.Serialise(dc, aw, v.A)
		bw.WriteString(NoValueSentinel)
		cw.WriteString(NoValueSentinel)
	case 1:
		aw.WriteString(NoValueSentinel)
		ok = c.bc.Serialise(dc, bw, v.B)
		cw.WriteString(NoValueSentinel)
	case 2:
		aw.WriteString(NoValueSentinel)
		bw.WriteString(NoValueSentinel)
		ok = c.cc.Serialise(dc, cw, v.C)
	default:
		w.report(CodeInvalidValue, "variant tag out of range")
		ok = false
	}
	aw.Finish()
	bw.Finish()
	cw.Finish()
	return ok
}

func (c variant3Codec[A, B, C]) Deserialise(dc *Context, r *Reader) (Variant3[A, B, C], bool) {
	var out Variant3[A, B, C]
	ar, as := classifyAlt(r, c.aLabel)
	br, bs := classifyAlt(r, c.bLabel)
	cr, cs := classifyAlt(r, c.cLabel)
	if as == altMissing || bs == altMissing || cs == altMissing {
		return out, false
	}
	switch {
	case as == altLive:
		v, ok := c.ac.Deserialise(dc, ar)
		if !ok {
			return out, false
		}
		return V3A[A, B, C](v), true
	case bs == altLive:
		v, ok := c.bc.Deserialise(dc, br)
		if !ok {
			return out, false
		}
		return V3B[A, B, C](v), true
	case cs == altLive:
		v, ok := c.cc.Deserialise(dc, cr)
		if !ok {
			return out, false
		}
		return V3C[A, B, C](v), true
	}
	r.report(CodeInvalidValue, "no live alternative")
	return out, false
}
