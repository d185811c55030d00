// Package k8sclient applies rendered manifests to a cluster, wrapping
// k8s.io/client-go for Server-Side Apply of multi-document YAML straight
// from kubeconfig bytes.
package k8sclient
