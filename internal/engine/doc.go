// Package engine applies a stack of release descriptors to a cluster.
//
// Releases are installed or upgraded with the Helm SDK. Chart renders are
// rendered locally, passed through their transformations and server-side
// applied. The stack is walked level by level; the members of a level run
// concurrently up to the configured parallelism and every remote call is
// retried with exponential backoff.
package engine
