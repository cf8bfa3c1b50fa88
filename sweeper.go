// ABOUTME: Main sweeper package providing version information and package documentation
// ABOUTME: This is the root package for the reachability-tracing heap manager

// Package sweeper provides a reachability-tracing heap manager with
// synchronous mark-and-sweep collection. It includes graph analyses
// (paths-to-roots, dominator tree, retained size), snapshot formats,
// a replayable mutation journal, and a persistent snapshot store.
package sweeper

// Version is the semantic version of the sweeper module
const Version = "0.1.0-dev"
