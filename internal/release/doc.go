// Package release builds descriptors for Helm chart releases.
//
// [NewRelease] describes a live Helm release that the apply engine installs
// or upgrades. [NewChartRender] describes a chart that is rendered locally,
// passed through an ordered list of [Transformation] hooks and applied as
// plain manifests. Both constructors are pure: they perform no I/O and
// cannot fail. Chart or value problems surface when the descriptor is
// applied.
package release
