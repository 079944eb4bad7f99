// Package loop runs a session's work on a single goroutine.
//
// Every callback that touches the buffer, the key processor or the
// terminal runs on the loop. Other goroutines hand work back through a
// Scheduler:
//
//   - CallSoon queues a function to run on the loop.
//   - CallLater queues it after a delay and returns a cancellable Timer.
//   - RunInExecutor runs blocking work on a worker goroutine and runs its
//     continuation on the loop, unless the context was cancelled first.
//   - AddReader delivers chunks read from an io.Reader on the loop.
//
// Loop is the goroutine-backed implementation used by sessions. Manual is
// a deterministic implementation with a fake clock for tests:
//
//	m := loop.NewManual()
//	m.CallLater(500*time.Millisecond, flush)
//	m.Advance(500 * time.Millisecond) // flush runs here
package loop
