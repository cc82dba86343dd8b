package class

// Construction plans and initialisation steps. At most one plan may be
// registered per builder; initialisation steps run after it in registration
// order. Cross-parameter checks attached here run during Validate only, after
// every individual field validated, and never during Deserialise.

// Construct0 registers a niladic constructor.
func Construct0[T any](b *Builder[T], fn func() T) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Construct0"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			p := new(T)
			*p = fn()
			return p, true
		},
		crossValidate: passCheck,
	})
}

// Construct1 registers a one-parameter constructor. checks receive the decoded
// parameter during Validate.
func Construct1[T, A any](b *Builder[T], fn func(A) T, pa Ref[T, A], checks ...func(A) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Construct1"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			p := new(T)
			*p = fn(a)
			return p, true
		},
		crossValidate: crossCheck1(pa, checks),
	})
}

// Construct2 registers a two-parameter constructor.
func Construct2[T, A, B any](b *Builder[T], fn func(A, B) T, pa Ref[T, A], pb Ref[T, B], checks ...func(A, B) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Construct2"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			p := new(T)
			*p = fn(a, bv)
			return p, true
		},
		crossValidate: crossCheck2(pa, pb, checks),
	})
}

// Construct3 registers a three-parameter constructor.
func Construct3[T, A, B, C any](b *Builder[T], fn func(A, B, C) T, pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], checks ...func(A, B, C) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Construct3"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			cv, ok := pc.decode(dc, r)
			if !ok {
				return nil, false
			}
			p := new(T)
			*p = fn(a, bv, cv)
			return p, true
		},
		crossValidate: crossCheck3(pa, pb, pc, checks),
	})
}

// Construct4 registers a four-parameter constructor.
func Construct4[T, A, B, C, D any](b *Builder[T], fn func(A, B, C, D) T, pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], pd Ref[T, D], checks ...func(A, B, C, D) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Construct4"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			cv, ok := pc.decode(dc, r)
			if !ok {
				return nil, false
			}
			dv, ok := pd.decode(dc, r)
			if !ok {
				return nil, false
			}
			p := new(T)
			*p = fn(a, bv, cv, dv)
			return p, true
		},
		crossValidate: crossCheck4(pa, pb, pc, pd, checks),
	})
}

// Factory1 registers a one-parameter factory returning *T. A nil result is a
// recoverable failure reported against the frame.
func Factory1[T, A any](b *Builder[T], fn func(A) *T, pa Ref[T, A], checks ...func(A) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Factory1"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			return factoryResult(dc, r, fn(a))
		},
		crossValidate: crossCheck1(pa, checks),
	})
}

// Factory2 registers a two-parameter factory.
func Factory2[T, A, B any](b *Builder[T], fn func(A, B) *T, pa Ref[T, A], pb Ref[T, B], checks ...func(A, B) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Factory2"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			return factoryResult(dc, r, fn(a, bv))
		},
		crossValidate: crossCheck2(pa, pb, checks),
	})
}

// Factory3 registers a three-parameter factory.
func Factory3[T, A, B, C any](b *Builder[T], fn func(A, B, C) *T, pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], checks ...func(A, B, C) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Factory3"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			cv, ok := pc.decode(dc, r)
			if !ok {
				return nil, false
			}
			return factoryResult(dc, r, fn(a, bv, cv))
		},
		crossValidate: crossCheck3(pa, pb, pc, checks),
	})
}

// Factory4 registers a four-parameter factory.
func Factory4[T, A, B, C, D any](b *Builder[T], fn func(A, B, C, D) *T, pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], pd Ref[T, D], checks ...func(A, B, C, D) error) {
	if fn == nil {
		b.addErr(cfgNil(b.typeName, "Factory4"))
		return
	}
	b.registerPlan(&plan[T]{
		build: func(dc *ctxT, r *rdrT) (*T, bool) {
			a, ok := pa.decode(dc, r)
			if !ok {
				return nil, false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return nil, false
			}
			cv, ok := pc.decode(dc, r)
			if !ok {
				return nil, false
			}
			dv, ok := pd.decode(dc, r)
			if !ok {
				return nil, false
			}
			return factoryResult(dc, r, fn(a, bv, cv, dv))
		},
		crossValidate: crossCheck4(pa, pb, pc, pd, checks),
	})
}

// Init1 registers a deferred one-parameter call applied to the constructed
// instance during Deserialise, after the construction plan.
func Init1[T, A any](b *Builder[T], call func(*T, A), pa Ref[T, A], checks ...func(A) error) {
	if call == nil {
		b.addErr(cfgNil(b.typeName, "Init1"))
		return
	}
	b.inits = append(b.inits, &initStep[T]{
		apply: func(dc *ctxT, r *rdrT, dst *T) bool {
			a, ok := pa.decode(dc, r)
			if !ok {
				return false
			}
			call(dst, a)
			return true
		},
		crossValidate: crossCheck1(pa, checks),
	})
}

// Init2 registers a deferred two-parameter call.
func Init2[T, A, B any](b *Builder[T], call func(*T, A, B), pa Ref[T, A], pb Ref[T, B], checks ...func(A, B) error) {
	if call == nil {
		b.addErr(cfgNil(b.typeName, "Init2"))
		return
	}
	b.inits = append(b.inits, &initStep[T]{
		apply: func(dc *ctxT, r *rdrT, dst *T) bool {
			a, ok := pa.decode(dc, r)
			if !ok {
				return false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return false
			}
			call(dst, a, bv)
			return true
		},
		crossValidate: crossCheck2(pa, pb, checks),
	})
}

// Init3 registers a deferred three-parameter call.
func Init3[T, A, B, C any](b *Builder[T], call func(*T, A, B, C), pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], checks ...func(A, B, C) error) {
	if call == nil {
		b.addErr(cfgNil(b.typeName, "Init3"))
		return
	}
	b.inits = append(b.inits, &initStep[T]{
		apply: func(dc *ctxT, r *rdrT, dst *T) bool {
			a, ok := pa.decode(dc, r)
			if !ok {
				return false
			}
			bv, ok := pb.decode(dc, r)
			if !ok {
				return false
			}
			cv, ok := pc.decode(dc, r)
			if !ok {
				return false
			}
			call(dst, a, bv, cv)
			return true
		},
		crossValidate: crossCheck3(pa, pb, pc, checks),
	})
}
