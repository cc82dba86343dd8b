// Package poly dispatches one base interface over a closed set of concrete
// types. A Set is configured with one descriptor per concrete type: a stable
// tag name, a match predicate, the concrete codec, and optionally a child set
// holding the types registered as more derived. The built codec writes the tag
// under the reserved "typeName" label and delegates the rest of the frame to
// the concrete codec.
//
// Matching is by capability: the default predicate is a concrete type
// assertion, and RegisterMatch takes an explicit predicate (typically a
// narrower interface assertion). When several descriptors match one value,
// the most derived wins: a descriptor loses if another matching descriptor
// sits in its registered child sets. No match or an ambiguous match is a
// recoverable diagnostic, not a panic.
package poly

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/i18n"
)

// TagKey is the reserved object label carrying the concrete type name. Codecs
// registered in a Set must not use it for their own fields.
const TagKey = "typeName"

// Set is the mutable registration surface for one base type B.
type Set[B any] struct {
	descs  []*descriptor[B]
	cfgErr error
}

type descriptor[B any] struct {
	name        string
	matches     func(B) bool
	children    *Set[B]
	serialise   func(dc *docodec.Context, w *docodec.Writer, v B) bool
	validate    func(dc *docodec.Context, r *docodec.Reader) bool
	deserialise func(dc *docodec.Context, r *docodec.Reader) (B, bool)
}

// contains reports whether o is registered anywhere below d.
func (d *descriptor[B]) contains(o *descriptor[B]) bool {
	if d.children == nil {
		return false
	}
	for _, c := range d.children.descs {
		if c == o || c.contains(o) {
			return true
		}
	}
	return false
}

// NewSet returns an empty set for base type B.
func NewSet[B any]() *Set[B] { return &Set[B]{} }

// Register adds a concrete type under name, matched by concrete type
// assertion.
func Register[B, D any](s *Set[B], name string, c docodec.Codec[D]) {
	register(s, name, c, nil, nil)
}

// RegisterMatch adds a concrete type with an explicit match predicate, for
// capability-style matching over interfaces broader than the concrete type.
func RegisterMatch[B, D any](s *Set[B], name string, c docodec.Codec[D], matches func(B) bool) {
	if matches == nil {
		s.cfgErr = multierr.Append(s.cfgErr, fmt.Errorf("poly: %s: nil match predicate", name))
		return
	}
	register(s, name, c, matches, nil)
}

// RegisterTree adds a concrete type together with the set of types registered
// as more derived than it. When this descriptor and one from children both
// match a value, the child wins.
func RegisterTree[B, D any](s *Set[B], name string, c docodec.Codec[D], children *Set[B]) {
	register(s, name, c, nil, children)
}

// RegisterMatchTree combines RegisterMatch and RegisterTree.
func RegisterMatchTree[B, D any](s *Set[B], name string, c docodec.Codec[D], matches func(B) bool, children *Set[B]) {
	if matches == nil {
		s.cfgErr = multierr.Append(s.cfgErr, fmt.Errorf("poly: %s: nil match predicate", name))
		return
	}
	register(s, name, c, matches, children)
}

func register[B, D any](s *Set[B], name string, c docodec.Codec[D], matches func(B) bool, children *Set[B]) {
	if name == "" {
		s.cfgErr = multierr.Append(s.cfgErr, errors.New("poly: empty type name"))
		return
	}
	if name == TagKey {
		s.cfgErr = multierr.Append(s.cfgErr, fmt.Errorf("poly: type name %q is reserved", TagKey))
		return
	}
	if c == nil {
		s.cfgErr = multierr.Append(s.cfgErr, fmt.Errorf("poly: %s: nil codec", name))
		return
	}
	var zero D
	if _, ok := any(zero).(B); !ok {
		s.cfgErr = multierr.Append(s.cfgErr, fmt.Errorf("poly: %s: concrete type %T does not implement the base type", name, zero))
		return
	}
	if matches == nil {
		matches = func(v B) bool {
			_, ok := any(v).(D)
			return ok
		}
	}
	d := &descriptor[B]{name: name, matches: matches, children: children}
	d.serialise = func(dc *docodec.Context, w *docodec.Writer, v B) bool {
		cv, ok := any(v).(D)
		if !ok {
			dc.Report(docodec.Issue{
				Path:    w.Path(),
				Code:    docodec.CodeInvalidValue,
				Message: i18n.T(docodec.CodeInvalidValue, nil),
				Hint:    fmt.Sprintf("value %T does not convert to registered type %s", v, name),
			})
			return false
		}
		return c.Serialise(dc, w, cv)
	}
	d.validate = func(dc *docodec.Context, r *docodec.Reader) bool {
		return c.Validate(dc, r)
	}
	d.deserialise = func(dc *docodec.Context, r *docodec.Reader) (B, bool) {
		var zb B
		cv, ok := c.Deserialise(dc, r)
		if !ok {
			return zb, false
		}
		return any(cv).(B), true
	}
	s.descs = append(s.descs, d)
}

// all returns every descriptor reachable from the set, depth first, each once.
func (s *Set[B]) all() []*descriptor[B] {
	seen := map[*descriptor[B]]bool{}
	var out []*descriptor[B]
	var walk func(*Set[B])
	walk = func(set *Set[B]) {
		for _, d := range set.descs {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
			if d.children != nil {
				walk(d.children)
			}
		}
	}
	walk(s)
	return out
}

func (s *Set[B]) collectErr() error {
	err := s.cfgErr
	for _, d := range s.descs {
		if d.children != nil {
			err = multierr.Append(err, d.children.collectErr())
		}
	}
	return err
}

// Build compiles the set into a codec for the base type. Duplicate tag names
// anywhere in the tree are configuration errors.
func (s *Set[B]) Build() (docodec.Codec[B], error) {
	if err := s.collectErr(); err != nil {
		return nil, err
	}
	all := s.all()
	if len(all) == 0 {
		return nil, errors.New("poly: empty type set")
	}
	byName := make(map[string]*descriptor[B], len(all))
	var err error
	for _, d := range all {
		if byName[d.name] != nil {
			err = multierr.Append(err, fmt.Errorf("poly: duplicate type name %q", d.name))
			continue
		}
		byName[d.name] = d
	}
	if err != nil {
		return nil, err
	}
	return &polyCodec[B]{all: all, byName: byName}, nil
}

// MustBuild is Build, panicking on configuration errors.
func (s *Set[B]) MustBuild() docodec.Codec[B] {
	c, err := s.Build()
	if err != nil {
		panic(err)
	}
	return c
}

type polyCodec[B any] struct {
	all    []*descriptor[B]
	byName map[string]*descriptor[B]
}

// resolve picks the most derived matching descriptor for v. A matching
// descriptor is discarded while another matching one sits below it.
func (c *polyCodec[B]) resolve(v B) (*descriptor[B], int) {
	var cands []*descriptor[B]
	for _, d := range c.all {
		if d.matches(v) {
			cands = append(cands, d)
		}
	}
	var winners []*descriptor[B]
	for _, d := range cands {
		ancestor := false
		for _, o := range cands {
			if o != d && d.contains(o) {
				ancestor = true
				break
			}
		}
		if !ancestor {
			winners = append(winners, d)
		}
	}
	if len(winners) != 1 {
		return nil, len(winners)
	}
	return winners[0], 1
}

func (c *polyCodec[B]) Serialise(dc *docodec.Context, w *docodec.Writer, v B) bool {
	d, n := c.resolve(v)
	if d == nil {
		hint := fmt.Sprintf("no registered type matches %T", v)
		if n > 1 {
			hint = fmt.Sprintf("%d registered types match %T with no unique most derived one", n, v)
		}
		dc.Report(docodec.Issue{
			Path:    w.Path(),
			Code:    docodec.CodeUnknownTypeName,
			Message: i18n.T(docodec.CodeUnknownTypeName, nil),
			Hint:    hint,
		})
		return false
	}
	if !w.SetObject() {
		return false
	}
	tw := w.Key(TagKey)
	if tw == nil {
		return false
	}
	tw.WriteString(d.name)
	tw.Finish()
	return d.serialise(dc, w, v)
}

// readTag reads and claims the type-name tag, so the concrete codec's
// unknown-key check does not see it.
func (c *polyCodec[B]) readTag(dc *docodec.Context, r *docodec.Reader) (*descriptor[B], bool) {
	tr := r.Key(TagKey)
	if tr == nil {
		return nil, false
	}
	name, ok := tr.ReadString()
	if !ok {
		return nil, false
	}
	r.Claim(TagKey)
	d := c.byName[name]
	if d == nil {
		dc.Report(docodec.Issue{
			Path:    r.Path(),
			Code:    docodec.CodeUnknownTypeName,
			Message: i18n.T(docodec.CodeUnknownTypeName, nil),
			Hint:    "tag " + name,
		})
		return nil, false
	}
	return d, true
}

func (c *polyCodec[B]) Validate(dc *docodec.Context, r *docodec.Reader) bool {
	d, ok := c.readTag(dc, r)
	if !ok {
		return false
	}
	return d.validate(dc, r)
}

func (c *polyCodec[B]) Deserialise(dc *docodec.Context, r *docodec.Reader) (B, bool) {
	var zero B
	d, ok := c.readTag(dc, r)
	if !ok {
		return zero, false
	}
	return d.deserialise(dc, r)
}
