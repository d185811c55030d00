// Package async runs named tasks concurrently with a bound on parallelism.
//
// [Run] is a thin layer over errgroup: the first failing task cancels the
// context handed to the others and its error, prefixed with the task name,
// is returned once every started task has finished.
package async
