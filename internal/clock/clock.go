// Package clock supplies the conversion time used in timestamps and sample
// info of converted nodes.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns the conversion time truncated to seconds
func Now() time.Time { return NowFunc().Truncate(time.Second) }

// At returns a clock stopped at t
func At(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
