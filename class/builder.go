// Package class compiles a declarative per-type configuration (which
// constructor or factory builds the type, which initialisation calls follow,
// which member values are read and written directly) into a docodec.Codec.
//
// A Builder is configured once, at process start or lazily on first use, and
// the codec it produces is immutable and stateless. Configuration mistakes
// (two construction plans, nil functions) surface from Build as an error, or
// as a panic from MustBuild; they are never data-dependent.
package class

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/multierr"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/i18n"
	"github.com/docodec/docodec/internal/typename"
)

// Builder accumulates the declarative configuration for T.
type Builder[T any] struct {
	typeName string
	fields   []*field[T]
	labelUse map[string]int
	plan     *plan[T]
	inits    []*initStep[T]
	postSer  func(*docodec.Context, *docodec.Writer, *T)
	postDes  func(*docodec.Context, *docodec.Reader, *T)
	cfgErr   error
}

type field[T any] struct {
	label    string
	write    func(dc *docodec.Context, w *docodec.Writer, v *T) bool
	validate func(dc *docodec.Context, r *docodec.Reader) bool
	assign   func(dc *docodec.Context, r *docodec.Reader, dst *T) bool // Var registrations only.
}

type plan[T any] struct {
	build         func(dc *docodec.Context, r *docodec.Reader) (*T, bool)
	crossValidate func(dc *docodec.Context, r *docodec.Reader) bool
}

type initStep[T any] struct {
	apply         func(dc *docodec.Context, r *docodec.Reader, dst *T) bool
	crossValidate func(dc *docodec.Context, r *docodec.Reader) bool
}

// New returns an empty builder for T named after the type.
func New[T any]() *Builder[T] {
	return &Builder[T]{typeName: typename.Of[T](), labelUse: map[string]int{}}
}

// Named overrides the type name used in frame paths and polymorphic tags.
func (b *Builder[T]) Named(name string) *Builder[T] {
	b.typeName = name
	return b
}

// TypeName returns the configured type name.
func (b *Builder[T]) TypeName() string { return b.typeName }

func (b *Builder[T]) addErr(err error) {
	b.cfgErr = multierr.Append(b.cfgErr, err)
}

// dedupLabel returns a unique label, appending a generated suffix when the
// requested one collides or is empty.
func (b *Builder[T]) dedupLabel(label string) string {
	if label == "" {
		label = "value"
	}
	n := b.labelUse[label]
	b.labelUse[label] = n + 1
	if n == 0 {
		return label
	}
	return label + "#" + strconv.Itoa(n+1)
}

func reportCheckFailure(dc *docodec.Context, path string, err error) {
	dc.Report(docodec.Issue{
		Path:    path,
		Code:    docodec.CodeInvalidValue,
		Message: i18n.T(docodec.CodeInvalidValue, nil),
		Hint:    err.Error(),
		Cause:   err,
	})
}

// Ref is the opaque handle for a registered parameter, consumed by the
// Construct/Factory/Init registration calls.
type Ref[T, F any] struct {
	label  string
	decode func(dc *docodec.Context, r *docodec.Reader) (F, bool)
}

// Label returns the (deduplicated) label the parameter serializes under.
func (p Ref[T, F]) Label() string { return p.label }

// Param registers a readable value fed to a construction plan or an
// initialisation step. get reads it from the instance at serialise time;
// checks validate the decoded value individually.
func Param[T, F any](b *Builder[T], label string, get func(*T) F, c docodec.Codec[F], checks ...func(F) error) Ref[T, F] {
	if get == nil {
		b.addErr(fmt.Errorf("class: %s: Param %q: nil getter", b.typeName, label))
		get = func(*T) F { var zero F; return zero }
	}
	return registerParam(b, label, func(v *T) F { return get(v) }, c, checks)
}

// ConstParam registers an externally sourced value (configuration, ambient
// constants) that does not come from the instance. It is still written into
// the document under its label so the output stays self-describing.
func ConstParam[T, F any](b *Builder[T], label string, get func() F, c docodec.Codec[F], checks ...func(F) error) Ref[T, F] {
	if get == nil {
		b.addErr(fmt.Errorf("class: %s: ConstParam %q: nil getter", b.typeName, label))
		get = func() F { var zero F; return zero }
	}
	return registerParam(b, label, func(*T) F { return get() }, c, checks)
}

func registerParam[T, F any](b *Builder[T], label string, get func(*T) F, c docodec.Codec[F], checks []func(F) error) Ref[T, F] {
	lbl := b.dedupLabel(label)
	f := &field[T]{label: lbl}
	f.write = func(dc *docodec.Context, w *docodec.Writer, v *T) bool {
		fw := w.Key(lbl)
		if fw == nil {
			return false
		}
		ok := c.Serialise(dc, fw, get(v))
		fw.Finish()
		return ok
	}
	decode := func(dc *docodec.Context, r *docodec.Reader) (F, bool) {
		var zero F
		fr := r.Key(lbl)
		if fr == nil {
			return zero, false
		}
		return c.Deserialise(dc, fr)
	}
	f.validate = func(dc *docodec.Context, r *docodec.Reader) bool {
		fr := r.Key(lbl)
		if fr == nil || !c.Validate(dc, fr) {
			return false
		}
		if len(checks) == 0 {
			return true
		}
		v, ok := decode(dc, r)
		if !ok {
			return false
		}
		for _, ck := range checks {
			if err := ck(v); err != nil {
				reportCheckFailure(dc, r.Path()+"/"+lbl, err)
				return false
			}
		}
		return true
	}
	b.fields = append(b.fields, f)
	return Ref[T, F]{label: lbl, decode: decode}
}

// Var registers a value that is read and written outside of construction and
// initialisation: serialized via get, assigned back via set after the
// construction plan and all initialisation steps ran.
func Var[T, F any](b *Builder[T], label string, get func(*T) F, set func(*T, F), c docodec.Codec[F], checks ...func(F) error) {
	if get == nil || set == nil {
		b.addErr(fmt.Errorf("class: %s: Var %q: nil getter or setter", b.typeName, label))
		return
	}
	ref := registerParam(b, label, func(v *T) F { return get(v) }, c, checks)
	f := b.fields[len(b.fields)-1]
	f.assign = func(dc *docodec.Context, r *docodec.Reader, dst *T) bool {
		v, ok := ref.decode(dc, r)
		if !ok {
			return false
		}
		set(dst, v)
		return true
	}
}

func (b *Builder[T]) registerPlan(p *plan[T]) {
	if b.plan != nil {
		b.addErr(fmt.Errorf("class: %s: construction plan registered twice", b.typeName))
		return
	}
	b.plan = p
}

// PostSerialise registers an escape hatch invoked as the very last step of
// Serialise, with full access to the in-progress document frame and value.
func (b *Builder[T]) PostSerialise(fn func(*docodec.Context, *docodec.Writer, *T)) *Builder[T] {
	b.postSer = fn
	return b
}

// PostDeserialise registers the matching escape hatch for Deserialise.
func (b *Builder[T]) PostDeserialise(fn func(*docodec.Context, *docodec.Reader, *T)) *Builder[T] {
	b.postDes = fn
	return b
}

// Build compiles the configuration into a codec. Types without a construction
// plan are built from their zero value. A builder with no registrations at
// all is rejected: such a codec would accept and produce only empty objects,
// which in practice means a registration call was forgotten. All
// configuration errors collected during registration are returned aggregated.
func (b *Builder[T]) Build() (docodec.Codec[T], error) {
	if b.cfgErr != nil {
		return nil, b.cfgErr
	}
	if len(b.fields) == 0 && b.plan == nil {
		return nil, errors.New("class: " + b.typeName + ": no fields, plan, or variables registered")
	}
	return &classCodec[T]{
		typeName: b.typeName,
		fields:   b.fields,
		plan:     b.plan,
		inits:    b.inits,
		postSer:  b.postSer,
		postDes:  b.postDes,
	}, nil
}

// MustBuild is Build, panicking on configuration errors.
func (b *Builder[T]) MustBuild() docodec.Codec[T] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
