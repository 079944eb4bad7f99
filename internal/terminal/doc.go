// Package terminal manages the controlling terminal: raw mode, the input
// stream, window size, job control and signals.
//
// Raw mode is a scoped guard. Acquire it with EnterRaw and release it
// with Restore on every exit path; Restore is idempotent, so it can be
// deferred and also called from signal handlers.
//
// Input reads with poll(2) and a short timeout so a reader can be paused
// while the host runs other programs, and stopped without leaving a
// goroutine blocked in read(2).
package terminal
