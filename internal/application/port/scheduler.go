package port

import "time"

// Task is a pending scheduled callback. Cancel is synchronous: once it
// returns the callback will not run. Cancelling twice is a no-op.
type Task interface {
	Cancel()
}

// Scheduler runs callbacks on the owning UI loop. Callbacks never run
// concurrently with each other or with the loop's event handlers.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Task

	// NextFrame runs fn after the host has completed its next layout pass,
	// so measurements taken inside fn reflect current content.
	NextFrame(fn func()) Task
}
