// Package testutil provides lifecycle helpers for test components.
//
// A TestComponent is a component.Component that can also Reset, Snapshot
// and Restore its state, such as the fake authorization service in fgatest.
//
//	func TestFeature(t *testing.T) {
//	    fake := fgatest.New()
//	    testutil.T(t).Start(fake) // stopped when the test ends
//	    testutil.T(t).Isolate(fake)
//	}
package testutil
