// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import "time"

// newTimerFunc schedules fn to run once, after d, on its own goroutine —
// a thin wrapper over time.AfterFunc so call sites read as "arm a timer"
// rather than reaching for the stdlib name directly.
func newTimerFunc(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, fn)
}
