package docodec

import (
	"fmt"

	"go.uber.org/zap"
)

// Context carries the mutable state of one top-level codec invocation: a set
// of named, lazily created typed caches (used chiefly by the shared-ownership
// codec) and the ordered list of path-tagged diagnostics reported by frames.
//
// A Context is created fresh per invocation by the package-level entry points
// unless the caller threads its own via the ...With variants, typically to
// keep shared-instance identity alive across several Deserialise calls. It is
// not safe for concurrent use.
type Context struct {
	caches map[string]any
	issues Issues
	logger *zap.Logger
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{caches: map[string]any{}}
}

// WithLogger attaches a zap logger; frames then mirror every reported
// diagnostic at Debug level. Returns the receiver for chaining.
func (c *Context) WithLogger(l *zap.Logger) *Context {
	c.logger = l
	return c
}

// Report appends a diagnostic. Diagnostics are advisory: control flow is
// carried by the bool/error results of the operations, never by this list.
func (c *Context) Report(iss Issue) {
	c.issues = append(c.issues, iss)
	if c.logger != nil {
		c.logger.Debug("diagnostic",
			zap.String("path", iss.Path),
			zap.String("code", iss.Code),
			zap.String("message", iss.Message))
	}
}

// Issues returns the diagnostics reported so far, in order.
func (c *Context) Issues() Issues { return c.issues }

// HasIssues reports whether any diagnostic was reported.
func (c *Context) HasIssues() bool { return len(c.issues) > 0 }

// Reset clears all caches and diagnostics. Rotating a Context this way breaks
// shared-instance identity with values deserialized before the reset, which
// is exactly what callers use it for.
func (c *Context) Reset() {
	c.caches = map[string]any{}
	c.issues = nil
}

// CacheOf returns the named typed cache slot from the Context, creating it on
// first access. The same name must always be used with the same type V; a
// mismatch is a configuration error and panics.
func CacheOf[V any](c *Context, name string) *V {
	if c.caches == nil {
		c.caches = map[string]any{}
	}
	if e, ok := c.caches[name]; ok {
		tv, ok := e.(*V)
		if !ok {
			panic(fmt.Sprintf("docodec: cache %q already holds %T", name, e))
		}
		return tv
	}
	tv := new(V)
	c.caches[name] = tv
	return tv
}
