// Package labels provides the labels chartstack puts on objects it creates.
//
// Every object carries the managed-by and stack labels so that all objects of
// one stack can be selected together. Keys use the chartstack.io prefix
// except for the well-known app.kubernetes.io ones.
package labels
