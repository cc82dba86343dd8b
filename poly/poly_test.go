package poly_test

import (
	"testing"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/class"
	"github.com/docodec/docodec/node"
	"github.com/docodec/docodec/poly"
)

type entity interface {
	ID() int
}

type base struct{ id int }

func (b base) ID() int { return b.id }

type child struct {
	base
	extra string
}

func (c child) Extra() string { return c.extra }

type grandchild struct {
	child
	depth int
}

func (g grandchild) Depth() int { return g.depth }

func baseCodec(t *testing.T) docodec.Codec[base] {
	t.Helper()
	cfg := class.New[base]()
	id := class.Param(cfg, "id", func(b *base) int { return b.id }, docodec.Int())
	class.Construct1(cfg, func(id int) base { return base{id: id} }, id)
	return cfg.MustBuild()
}

func childCodec(t *testing.T) docodec.Codec[child] {
	t.Helper()
	cfg := class.New[child]()
	id := class.Param(cfg, "id", func(c *child) int { return c.id }, docodec.Int())
	extra := class.Param(cfg, "extra", func(c *child) string { return c.extra }, docodec.String())
	class.Construct2(cfg, func(id int, extra string) child {
		return child{base: base{id: id}, extra: extra}
	}, id, extra)
	return cfg.MustBuild()
}

func grandchildCodec(t *testing.T) docodec.Codec[grandchild] {
	t.Helper()
	cfg := class.New[grandchild]()
	id := class.Param(cfg, "id", func(g *grandchild) int { return g.id }, docodec.Int())
	extra := class.Param(cfg, "extra", func(g *grandchild) string { return g.extra }, docodec.String())
	depth := class.Param(cfg, "depth", func(g *grandchild) int { return g.depth }, docodec.Int())
	class.Construct3(cfg, func(id int, extra string, depth int) grandchild {
		return grandchild{child: child{base: base{id: id}, extra: extra}, depth: depth}
	}, id, extra, depth)
	return cfg.MustBuild()
}

// entitySet registers the three-level chain with capability predicates: every
// entity matches Base, anything exposing Extra matches Child, anything
// exposing Depth matches GrandChild.
func entitySet(t *testing.T) docodec.Codec[entity] {
	t.Helper()
	grand := poly.NewSet[entity]()
	poly.RegisterMatch(grand, "GrandChild", grandchildCodec(t), func(v entity) bool {
		_, ok := v.(interface{ Depth() int })
		return ok
	})
	children := poly.NewSet[entity]()
	poly.RegisterMatchTree(children, "Child", childCodec(t), func(v entity) bool {
		_, ok := v.(interface{ Extra() string })
		return ok
	}, grand)
	root := poly.NewSet[entity]()
	poly.RegisterMatchTree(root, "Base", baseCodec(t), func(v entity) bool {
		return true
	}, children)
	c, err := root.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func tagOf(t *testing.T, doc *node.Node) string {
	t.Helper()
	tn, ok := doc.Get(poly.TagKey)
	if !ok {
		t.Fatalf("document carries no type tag: %s", doc)
	}
	s, _ := tn.Str()
	return s
}

func TestMostDerivedMatchWins(t *testing.T) {
	c := entitySet(t)
	g := grandchild{child: child{base: base{id: 1}, extra: "x"}, depth: 3}
	doc := docodec.Serialise(c, entity(g))
	if tag := tagOf(t, doc); tag != "GrandChild" {
		t.Fatalf("want GrandChild tag, got %q", tag)
	}
	doc = docodec.Serialise(c, entity(child{base: base{id: 1}, extra: "x"}))
	if tag := tagOf(t, doc); tag != "Child" {
		t.Fatalf("want Child tag, got %q", tag)
	}
	doc = docodec.Serialise(c, entity(base{id: 1}))
	if tag := tagOf(t, doc); tag != "Base" {
		t.Fatalf("want Base tag, got %q", tag)
	}
}

func TestPolymorphicRoundTrip(t *testing.T) {
	c := entitySet(t)
	in := entity(grandchild{child: child{base: base{id: 7}, extra: "deep"}, depth: 2})
	doc := docodec.Serialise(c, in)
	if !docodec.Validate(c, doc) {
		t.Fatalf("serialised polymorphic document failed validation")
	}
	back, err := docodec.Deserialise(c, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	g, ok := back.(grandchild)
	if !ok {
		t.Fatalf("want grandchild, got %T", back)
	}
	if g.ID() != 7 || g.Extra() != "deep" || g.Depth() != 2 {
		t.Fatalf("wrong value: %+v", g)
	}
}

func TestTagIsHiddenFromConcreteCodec(t *testing.T) {
	// The class codec rejects unknown keys; the claimed tag must not reach it.
	c := entitySet(t)
	doc := docodec.Serialise(c, entity(base{id: 1}))
	dc := docodec.NewContext()
	if !docodec.ValidateWith(dc, c, doc) {
		t.Fatalf("validation failed: %v", dc.Issues())
	}
}

func TestUnknownTagFailsValidation(t *testing.T) {
	c := entitySet(t)
	doc, err := node.FromAny(map[string]any{poly.TagKey: "Nope", "id": 1.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, c, doc) {
		t.Fatalf("unknown tag should not validate")
	}
	found := false
	for _, iss := range dc.Issues() {
		if iss.Code == docodec.CodeUnknownTypeName {
			found = true
		}
	}
	if !found {
		t.Fatalf("want %s, got %v", docodec.CodeUnknownTypeName, dc.Issues())
	}
}

func TestMissingTagFailsValidation(t *testing.T) {
	c := entitySet(t)
	doc, err := node.FromAny(map[string]any{"id": 1.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(c, doc) {
		t.Fatalf("document without tag should not validate")
	}
}

func TestAmbiguousMatchIsReported(t *testing.T) {
	// Two unrelated descriptors match every entity; neither is more derived.
	s := poly.NewSet[entity]()
	poly.RegisterMatch(s, "A", baseCodec(t), func(entity) bool { return true })
	poly.RegisterMatch(s, "B", baseCodec(t), func(entity) bool { return true })
	c, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dc := docodec.NewContext()
	docodec.SerialiseWith(dc, c, entity(base{id: 1}))
	found := false
	for _, iss := range dc.Issues() {
		if iss.Code == docodec.CodeUnknownTypeName {
			found = true
		}
	}
	if !found {
		t.Fatalf("ambiguous match should report a diagnostic, got %v", dc.Issues())
	}
}

func TestNoMatchIsReported(t *testing.T) {
	s := poly.NewSet[entity]()
	poly.RegisterMatch(s, "Never", baseCodec(t), func(entity) bool { return false })
	c, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dc := docodec.NewContext()
	docodec.SerialiseWith(dc, c, entity(base{id: 1}))
	if !dc.HasIssues() {
		t.Fatalf("unmatched value should report a diagnostic")
	}
}

func TestDuplicateTagNamesAreConfigErrors(t *testing.T) {
	s := poly.NewSet[entity]()
	poly.Register(s, "Base", baseCodec(t))
	poly.Register(s, "Base", childCodec(t))
	if _, err := s.Build(); err == nil {
		t.Fatalf("duplicate tag names should fail Build")
	}
}

func TestReservedTagNameIsConfigError(t *testing.T) {
	s := poly.NewSet[entity]()
	poly.Register(s, poly.TagKey, baseCodec(t))
	if _, err := s.Build(); err == nil {
		t.Fatalf("reserved tag name should fail Build")
	}
}
