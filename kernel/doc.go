// Package kernel implements the simulation kernel: the event-driven
// time-advancement loop, request admission, and the DAG dependency
// gate. It is the only package that mutates a Request's or an
// Instance's lifecycle state.
//
// # Reading Guide
//
// Start with these two files:
//   - admission.go: how a Request enters the simulation and how its
//     entry tools are enqueued
//   - simulator.go: the event loop itself (Simulator.Run) and the DAG
//     dependency gate that releases successor tools (releaseDependents)
//
// # Architecture
//
// kernel owns the active set, the event queue, and the metrics
// collector reference for the duration of a run; nothing else touches
// them while the loop is running. It depends on, but never reaches
// into the internals of, package allocator (fair-share shares and the
// completion oracle), package eventqueue (the start-event heap), and
// package metrics (derived statistics).
package kernel
