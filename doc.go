// Package docodec converts object graphs to and from an encoding-neutral
// document tree and back, driven by declarative per-type codecs instead of
// reflection at the call site.
//
// A Codec[T] bundles three operations over one type: Validate answers
// whether a document could become a T, Serialise renders a T into a
// document, and Deserialise rebuilds the T. Codecs for primitives and
// containers live in this package; codecs for user types are compiled from a
// declarative configuration by the class subpackage, dispatched over base
// interfaces by the poly subpackage, and wrapped with pointer-ownership
// semantics by the own subpackage.
//
// All three operations run against Writer or Reader frames over nodes of the
// node subpackage, with a Context carrying per-invocation caches and
// path-tagged diagnostics. Data problems are reported as diagnostics and
// failed results, never as panics; panics are reserved for configuration
// errors wired at build time.
//
//	cfg := class.New[Point]()
//	x := class.Param(cfg, "x", func(p *Point) float64 { return p.X }, docodec.Float64())
//	y := class.Param(cfg, "y", func(p *Point) float64 { return p.Y }, docodec.Float64())
//	class.Construct2(cfg, NewPoint, x, y)
//	codec := cfg.MustBuild()
//
//	doc := docodec.Serialise(codec, pt)
//	back, err := docodec.Deserialise(codec, doc)
package docodec
