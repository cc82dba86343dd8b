package class_test

import (
	"errors"
	"reflect"
	"testing"

	docodec "github.com/docodec/docodec"
	"github.com/docodec/docodec/class"
	"github.com/docodec/docodec/node"
)

type widget struct {
	a int
	b []int
	c string
}

func newWidget(a int, b []int, c string) widget {
	return widget{a: a, b: b, c: c}
}

func widgetCodec(t *testing.T) docodec.Codec[widget] {
	t.Helper()
	cfg := class.New[widget]()
	a := class.Param(cfg, "a", func(w *widget) int { return w.a }, docodec.Int())
	b := class.Param(cfg, "b", func(w *widget) []int { return w.b }, docodec.Slice(docodec.Int()))
	c := class.Param(cfg, "c", func(w *widget) string { return w.c }, docodec.String())
	class.Construct3(cfg, newWidget, a, b, c)
	codec, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return codec
}

func TestWidgetSerialiseLayout(t *testing.T) {
	codec := widgetCodec(t)
	doc := docodec.Serialise(codec, widget{a: 5, b: []int{1, 2, 3}, c: "hi"})
	data, err := node.EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if want := `{"a":5,"b":[1,2,3],"c":"hi"}`; string(data) != want {
		t.Fatalf("want %s, got %s", want, data)
	}
}

func TestWidgetRoundTrip(t *testing.T) {
	codec := widgetCodec(t)
	in := widget{a: 5, b: []int{1, 2, 3}, c: "hi"}
	doc := docodec.Serialise(codec, in)
	if !docodec.Validate(codec, doc) {
		t.Fatalf("serialised document failed validation")
	}
	back, err := docodec.Deserialise(codec, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if !reflect.DeepEqual(in, back) {
		t.Fatalf("want %+v, got %+v", in, back)
	}
}

func TestWidgetMissingFieldFailsValidation(t *testing.T) {
	codec := widgetCodec(t)
	doc := docodec.Serialise(codec, widget{a: 5, b: []int{1}, c: "hi"})
	doc.Delete("a")
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, codec, doc) {
		t.Fatalf("document lacking a field should not validate")
	}
	found := false
	for _, iss := range dc.Issues() {
		if iss.Code == docodec.CodeMissingKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("want %s, got %v", docodec.CodeMissingKey, dc.Issues())
	}
}

func TestWidgetUnknownKeyFailsValidation(t *testing.T) {
	codec := widgetCodec(t)
	doc := docodec.Serialise(codec, widget{a: 1, b: nil, c: ""})
	extra, _ := doc.Put("extra")
	extra.SetNumber(9)
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, codec, doc) {
		t.Fatalf("document with unknown key should not validate")
	}
	found := false
	for _, iss := range dc.Issues() {
		if iss.Code == docodec.CodeUnknownKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("want %s, got %v", docodec.CodeUnknownKey, dc.Issues())
	}
}

func TestWidgetFieldTypeMismatchFailsValidation(t *testing.T) {
	codec := widgetCodec(t)
	doc, err := node.FromAny(map[string]any{"a": "five", "b": []any{}, "c": "hi"})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(codec, doc) {
		t.Fatalf("string where int expected should not validate")
	}
}

type counter struct {
	total int
	log   []string
}

func TestInitStepsRunInRegistrationOrder(t *testing.T) {
	cfg := class.New[counter]()
	a := class.Param(cfg, "a", func(c *counter) int { return 1 }, docodec.Int())
	b := class.Param(cfg, "b", func(c *counter) int { return 2 }, docodec.Int())
	class.Construct0(cfg, func() counter { return counter{log: []string{"ctor"}} })
	class.Init1(cfg, func(c *counter, v int) {
		c.total += v
		c.log = append(c.log, "first")
	}, a)
	class.Init1(cfg, func(c *counter, v int) {
		c.total += v * 10
		c.log = append(c.log, "second")
	}, b)
	codec := cfg.MustBuild()

	doc := docodec.Serialise(codec, counter{})
	back, err := docodec.Deserialise(codec, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back.total != 21 {
		t.Fatalf("want 21, got %d", back.total)
	}
	if !reflect.DeepEqual(back.log, []string{"ctor", "first", "second"}) {
		t.Fatalf("wrong order: %v", back.log)
	}
}

type settings struct {
	name  string
	debug bool
}

func TestVarAssignedAfterConstruction(t *testing.T) {
	cfg := class.New[settings]()
	n := class.Param(cfg, "name", func(s *settings) string { return s.name }, docodec.String())
	class.Construct1(cfg, func(name string) settings { return settings{name: name} }, n)
	class.Var(cfg, "debug",
		func(s *settings) bool { return s.debug },
		func(s *settings, v bool) { s.debug = v },
		docodec.Bool())
	codec := cfg.MustBuild()

	in := settings{name: "x", debug: true}
	doc := docodec.Serialise(codec, in)
	back, err := docodec.Deserialise(codec, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back != in {
		t.Fatalf("want %+v, got %+v", in, back)
	}
}

func TestDuplicateLabelsAreDeduplicated(t *testing.T) {
	type pair struct{ x, y int }
	cfg := class.New[pair]()
	a := class.Param(cfg, "v", func(p *pair) int { return p.x }, docodec.Int())
	b := class.Param(cfg, "v", func(p *pair) int { return p.y }, docodec.Int())
	if a.Label() == b.Label() {
		t.Fatalf("labels were not deduplicated: %q", a.Label())
	}
	class.Construct2(cfg, func(x, y int) pair { return pair{x, y} }, a, b)
	codec := cfg.MustBuild()

	in := pair{x: 1, y: 2}
	doc := docodec.Serialise(codec, in)
	if len(doc.Keys()) != 2 {
		t.Fatalf("want 2 distinct keys, got %v", doc.Keys())
	}
	back, err := docodec.Deserialise(codec, doc)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if back != in {
		t.Fatalf("want %+v, got %+v", in, back)
	}
}

type span struct{ lo, hi int }

func spanCodec(t *testing.T) docodec.Codec[span] {
	t.Helper()
	cfg := class.New[span]()
	lo := class.Param(cfg, "lo", func(s *span) int { return s.lo }, docodec.Int())
	hi := class.Param(cfg, "hi", func(s *span) int { return s.hi }, docodec.Int())
	class.Construct2(cfg, func(lo, hi int) span { return span{lo, hi} }, lo, hi,
		func(lo, hi int) error {
			if lo > hi {
				return errors.New("lo exceeds hi")
			}
			return nil
		})
	return cfg.MustBuild()
}

func TestCrossFieldCheckRunsAfterFieldValidation(t *testing.T) {
	codec := spanCodec(t)
	bad, err := node.FromAny(map[string]any{"lo": 9.0, "hi": 1.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, codec, bad) {
		t.Fatalf("inverted span should not validate")
	}
	found := false
	for _, iss := range dc.Issues() {
		if iss.Code == docodec.CodeInvalidValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("want %s, got %v", docodec.CodeInvalidValue, dc.Issues())
	}

	good, err := node.FromAny(map[string]any{"lo": 1.0, "hi": 9.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if !docodec.Validate(codec, good) {
		t.Fatalf("ordered span should validate")
	}
}

func TestIndividualCheckReportsFieldPath(t *testing.T) {
	type named struct{ name string }
	cfg := class.New[named]()
	n := class.Param(cfg, "name", func(v *named) string { return v.name }, docodec.String(),
		func(s string) error {
			if s == "" {
				return errors.New("empty name")
			}
			return nil
		})
	class.Construct1(cfg, func(s string) named { return named{name: s} }, n)
	codec := cfg.MustBuild()

	doc, err := node.FromAny(map[string]any{"name": ""})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	dc := docodec.NewContext()
	if docodec.ValidateWith(dc, codec, doc) {
		t.Fatalf("empty name should not validate")
	}
	iss := dc.Issues()
	if len(iss) == 0 || iss[0].Path == "" {
		t.Fatalf("want a path-tagged diagnostic, got %v", iss)
	}
}

func TestFactoryNilResultFailsDeserialise(t *testing.T) {
	type handle struct{ id int }
	cfg := class.New[handle]()
	id := class.Param(cfg, "id", func(h *handle) int { return h.id }, docodec.Int())
	class.Factory1(cfg, func(id int) *handle {
		if id == 0 {
			return nil
		}
		return &handle{id: id}
	}, id)
	codec := cfg.MustBuild()

	doc, err := node.FromAny(map[string]any{"id": 0.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if _, err := docodec.Deserialise(codec, doc); err == nil {
		t.Fatalf("nil factory result should fail deserialisation")
	}

	ok, err := node.FromAny(map[string]any{"id": 3.0})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	h, err := docodec.Deserialise(codec, ok)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if h.id != 3 {
		t.Fatalf("want id 3, got %d", h.id)
	}
}

func TestPostHooksRun(t *testing.T) {
	type blob struct{ n int }
	serHook, desHook := false, false
	cfg := class.New[blob]()
	n := class.Param(cfg, "n", func(b *blob) int { return b.n }, docodec.Int())
	class.Construct1(cfg, func(n int) blob { return blob{n: n} }, n)
	cfg.PostSerialise(func(dc *docodec.Context, w *docodec.Writer, b *blob) { serHook = true })
	cfg.PostDeserialise(func(dc *docodec.Context, r *docodec.Reader, b *blob) { desHook = true })
	codec := cfg.MustBuild()

	doc := docodec.Serialise(codec, blob{n: 1})
	if !serHook {
		t.Fatalf("post-serialise hook did not run")
	}
	if _, err := docodec.Deserialise(codec, doc); err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if !desHook {
		t.Fatalf("post-deserialise hook did not run")
	}
}

func TestConstParamWritesAndChecksConstant(t *testing.T) {
	type doc struct{ body string }
	cfg := class.New[doc]()
	v := class.ConstParam(cfg, "version", func() int { return 2 }, docodec.Int(),
		func(ver int) error {
			if ver != 2 {
				return errors.New("unsupported version")
			}
			return nil
		})
	body := class.Param(cfg, "body", func(d *doc) string { return d.body }, docodec.String())
	class.Construct2(cfg, func(_ int, b string) doc { return doc{body: b} }, v, body)
	codec := cfg.MustBuild()

	out := docodec.Serialise(codec, doc{body: "x"})
	ver, ok := out.Get("version")
	if !ok {
		t.Fatalf("constant was not written: %s", out)
	}
	if f, _ := ver.Number(); f != 2 {
		t.Fatalf("want version 2, got %v", f)
	}

	bad, err := node.FromAny(map[string]any{"version": 3.0, "body": "x"})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	if docodec.Validate(codec, bad) {
		t.Fatalf("unsupported version should not validate")
	}
}

func TestBuildRejectsTwoConstructionPlans(t *testing.T) {
	type v struct{ n int }
	cfg := class.New[v]()
	n := class.Param(cfg, "n", func(x *v) int { return x.n }, docodec.Int())
	class.Construct1(cfg, func(n int) v { return v{n: n} }, n)
	class.Construct0(cfg, func() v { return v{} })
	if _, err := cfg.Build(); err == nil {
		t.Fatalf("two construction plans should be a configuration error")
	}
}

func TestBuildRejectsEmptyConfiguration(t *testing.T) {
	if _, err := class.New[struct{}]().Build(); err == nil {
		t.Fatalf("empty configuration should be a configuration error")
	}
}

func TestBuildRejectsNilFunctions(t *testing.T) {
	type v struct{ n int }
	cfg := class.New[v]()
	class.Param(cfg, "n", nil, docodec.Int())
	if _, err := cfg.Build(); err == nil {
		t.Fatalf("nil getter should be a configuration error")
	}
}

func TestClassCodecImplementsInPlace(t *testing.T) {
	codec := widgetCodec(t)
	ip, ok := codec.(docodec.InPlace[widget])
	if !ok {
		t.Fatalf("class codec should implement the in-place contract")
	}
	in := widget{a: 2, b: []int{4}, c: "z"}
	doc := docodec.Serialise(codec, in)
	dc := docodec.NewContext()
	var dst widget
	if !ip.DeserialiseInto(dc, docodec.NewReader(dc, doc, "widget"), &dst) {
		t.Fatalf("DeserialiseInto failed: %v", dc.Issues())
	}
	if !reflect.DeepEqual(in, dst) {
		t.Fatalf("want %+v, got %+v", in, dst)
	}
}
