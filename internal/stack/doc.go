// Package stack holds the dependency graph of a chart stack.
//
// Resources are registered in build order with [Stack.Add]. A resource may
// only depend on resources registered before it, or on external resources
// created outside the stack. [Stack.Levels] groups the graph into apply
// levels: every resource in a level depends only on resources of earlier
// levels, so the members of one level can be applied concurrently.
package stack
