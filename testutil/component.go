package testutil

import (
	"context"

	"github.com/kbukum/fgakit/component"
)

// TestComponent is a component whose state can be rolled back between test
// cases. A snapshot is only meaningful to the component that produced it.
type TestComponent interface {
	component.Component
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (any, error)
	Restore(ctx context.Context, snapshot any) error
}
