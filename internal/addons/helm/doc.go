// Package helm provides Helm chart management for addon releases.
//
// It includes the [Values] overlay type with non-mutating merge helpers,
// a chart registry mapping addon names to chart specifications, shared
// value builder functions for common Kubernetes constructs like node
// affinity, topology spread constraints and IRSA service accounts, and
// the Helm SDK plumbing (chart download, local rendering, install/upgrade)
// used by the apply engine.
package helm
