package class

import (
	"fmt"

	docodec "github.com/docodec/docodec"
)

type (
	ctxT = docodec.Context
	rdrT = docodec.Reader
)

func cfgNil(typeName, op string) error {
	return fmt.Errorf("class: %s: %s: nil function", typeName, op)
}

func passCheck(*ctxT, *rdrT) bool { return true }

func crossCheck1[T, A any](pa Ref[T, A], checks []func(A) error) func(*ctxT, *rdrT) bool {
	if len(checks) == 0 {
		return passCheck
	}
	return func(dc *ctxT, r *rdrT) bool {
		a, ok := pa.decode(dc, r)
		if !ok {
			return false
		}
		for _, ck := range checks {
			if err := ck(a); err != nil {
				reportCheckFailure(dc, r.Path(), err)
				return false
			}
		}
		return true
	}
}

func crossCheck2[T, A, B any](pa Ref[T, A], pb Ref[T, B], checks []func(A, B) error) func(*ctxT, *rdrT) bool {
	if len(checks) == 0 {
		return passCheck
	}
	return func(dc *ctxT, r *rdrT) bool {
		a, ok := pa.decode(dc, r)
		if !ok {
			return false
		}
		bv, ok := pb.decode(dc, r)
		if !ok {
			return false
		}
		for _, ck := range checks {
			if err := ck(a, bv); err != nil {
				reportCheckFailure(dc, r.Path(), err)
				return false
			}
		}
		return true
	}
}

func crossCheck3[T, A, B, C any](pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], checks []func(A, B, C) error) func(*ctxT, *rdrT) bool {
	if len(checks) == 0 {
		return passCheck
	}
	return func(dc *ctxT, r *rdrT) bool {
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
		for _, ck := range checks {
			if err := ck(a, bv, cv); err != nil {
				reportCheckFailure(dc, r.Path(), err)
				return false
			}
		}
		return true
	}
}

func crossCheck4[T, A, B, C, D any](pa Ref[T, A], pb Ref[T, B], pc Ref[T, C], pd Ref[T, D], checks []func(A, B, C, D) error) func(*ctxT, *rdrT) bool {
	if len(checks) == 0 {
		return passCheck
	}
	return func(dc *ctxT, r *rdrT) bool {
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
		dv, ok := pd.decode(dc, r)
		if !ok {
			return false
		}
		for _, ck := range checks {
			if err := ck(a, bv, cv, dv); err != nil {
				reportCheckFailure(dc, r.Path(), err)
				return false
			}
		}
		return true
	}
}

// factoryResult maps a nil factory result to a reported failure.
func factoryResult[T any](dc *ctxT, r *rdrT, p *T) (*T, bool) {
	if p == nil {
		dc.Report(docodec.Issue{
			Path:    r.Path(),
			Code:    docodec.CodeInvalidValue,
			Message: "factory returned no instance",
		})
		return nil, false
	}
	return p, true
}
