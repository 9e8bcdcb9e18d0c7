package testutil

import (
	"context"
	"testing"
)

// Harness ties the lifecycle of test components to a test. Every failure
// is reported through the test, so callers never check errors.
type Harness struct {
	tb  testing.TB
	ctx context.Context
}

// T returns a harness for tb.
//
//	func TestGrant(t *testing.T) {
//	    fake := fgatest.New()
//	    testutil.T(t).Start(fake)
//	}
func T(tb testing.TB) *Harness {
	return &Harness{tb: tb, ctx: context.Background()}
}

// WithContext sets the context passed to component methods.
func (h *Harness) WithContext(ctx context.Context) *Harness {
	h.ctx = ctx
	return h
}

// Start starts c and stops it when the test ends.
func (h *Harness) Start(c TestComponent) {
	h.tb.Helper()
	h.must(c, "start", c.Start(h.ctx))
	h.tb.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.tb.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

func (h *Harness) Reset(c TestComponent) {
	h.tb.Helper()
	h.must(c, "reset", c.Reset(h.ctx))
}

func (h *Harness) Snapshot(c TestComponent) any {
	h.tb.Helper()
	snap, err := c.Snapshot(h.ctx)
	h.must(c, "snapshot", err)
	return snap
}

func (h *Harness) Restore(c TestComponent, snap any) {
	h.tb.Helper()
	h.must(c, "restore", c.Restore(h.ctx, snap))
}

// Isolate snapshots c now and restores it when the test ends, so state a
// subtest adds does not leak into its siblings.
func (h *Harness) Isolate(c TestComponent) {
	h.tb.Helper()
	snap := h.Snapshot(c)
	h.tb.Cleanup(func() {
		if err := c.Restore(h.ctx, snap); err != nil {
			h.tb.Errorf("restore %s: %v", c.Name(), err)
		}
	})
}

func (h *Harness) must(c TestComponent, op string, err error) {
	h.tb.Helper()
	if err != nil {
		h.tb.Fatalf("%s %s: %v", op, c.Name(), err)
	}
}
