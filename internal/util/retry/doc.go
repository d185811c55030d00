// Package retry provides exponential backoff for transient failures.
//
// [Do] retries an operation with a configurable number of retries, initial
// delay, maximum delay and multiplier. The engine uses it for chart
// downloads, Helm installs and server-side applies; errors wrapped with
// [Fatal] stop the retries immediately.
package retry
