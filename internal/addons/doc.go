// Package addons builds release descriptors for the cluster add-ons of an
// EKS stack.
//
// Each add-on has an args struct, a pure build function that assembles the
// chart values, and an exported constructor returning the descriptor:
//
//	rel := addons.ExternalDNS(provider, addons.ExternalDNSArgs{
//		RoleARN: "arn:aws:iam::123456789012:role/external-dns",
//	})
//
// Empty chart identity fields fall back to [helm.DefaultChartSpecs] and an
// empty namespace to the add-on's default namespace. [BuildStack] wires the
// enabled add-ons from a [config.Config] in dependency order.
package addons
