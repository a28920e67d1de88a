// Package promise implements a lock-free, write-once deferred value.
//
// A Promise[A] is a cell that eventually carries either a value of type A or
// a failure. Callbacks registered before completion run exactly once, in an
// order determined by the depth at which they were registered, via a
// pluggable Scheduler. Two promises can be fused with Become, collapsing
// long chains built by Transform into a single canonical promise.
//
// The package does not implement an end-user Future/combinator API (map,
// flatMap, select, timeouts) — that belongs in a layer built on top of the
// narrow surface exposed here.
package promise
