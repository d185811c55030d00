package k8sclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
	"k8s.io/utils/ptr"
)

// ApplyManifests server-side applies every object of a multi-document YAML
// stream in order. Objects without a namespace land in defaultNamespace.
// Conflicting field owners are overridden by fieldManager.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, defaultNamespace, fieldManager string) error {
	objects, err := decodeManifests(manifests)
	if err != nil {
		return err
	}

	opts := metav1.PatchOptions{FieldManager: fieldManager, Force: ptr.To(true)}
	for _, obj := range objects {
		if err := c.applyObject(ctx, obj, defaultNamespace, opts); err != nil {
			return fmt.Errorf("failed to apply %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
	}
	return nil
}

// decodeManifests splits a YAML or JSON stream into objects, skipping
// empty documents.
func decodeManifests(manifests []byte) ([]*unstructured.Unstructured, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var objects []*unstructured.Unstructured
	for doc := 0; ; doc++ {
		obj := &unstructured.Unstructured{}
		err := decoder.Decode(obj)
		if errors.Is(err, io.EOF) {
			return objects, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", doc, err)
		}
		if len(obj.Object) > 0 {
			objects = append(objects, obj)
		}
	}
}

func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured, defaultNamespace string, opts metav1.PatchOptions) error {
	target, err := c.resourceFor(obj, defaultNamespace)
	if err != nil {
		return err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	if _, err := target.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts); err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// resourceFor maps obj to its dynamic resource client, scoped to a
// namespace for namespaced kinds.
func (c *client) resourceFor(obj *unstructured.Unstructured, defaultNamespace string) (dynamic.ResourceInterface, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return nil, errors.New("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	resource := c.dynamicClient.Resource(mapping.Resource)
	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return resource, nil
	}

	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = defaultNamespace
	}
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return resource.Namespace(namespace), nil
}
