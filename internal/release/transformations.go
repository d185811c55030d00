package release

import (
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// SetLabel sets metadata.labels[key] on every object.
func SetLabel(key, value string) Transformation {
	return func(obj map[string]any) map[string]any {
		_ = unstructured.SetNestedField(obj, value, "metadata", "labels", key)
		return obj
	}
}

// SetAnnotation sets metadata.annotations[key] on every object.
func SetAnnotation(key, value string) Transformation {
	return func(obj map[string]any) map[string]any {
		_ = unstructured.SetNestedField(obj, value, "metadata", "annotations", key)
		return obj
	}
}

// RemoveField deletes the field at path. Missing paths are ignored.
func RemoveField(path ...string) Transformation {
	return func(obj map[string]any) map[string]any {
		unstructured.RemoveNestedField(obj, path...)
		return obj
	}
}

// StripWebhookCABundle removes webhooks[*].clientConfig.caBundle from
// admission webhook configurations. The bundle is injected in-cluster, so a
// rendered value would be overwritten on every apply.
func StripWebhookCABundle() Transformation {
	return func(obj map[string]any) map[string]any {
		kind, _, _ := unstructured.NestedString(obj, "kind")
		if kind != "ValidatingWebhookConfiguration" && kind != "MutatingWebhookConfiguration" {
			return obj
		}

		webhooks, ok := obj["webhooks"].([]any)
		if !ok {
			return obj
		}
		for _, w := range webhooks {
			if webhook, ok := w.(map[string]any); ok {
				unstructured.RemoveNestedField(webhook, "clientConfig", "caBundle")
			}
		}
		return obj
	}
}

// DropKinds removes every object whose kind is one of kinds.
func DropKinds(kinds ...string) Transformation {
	return func(obj map[string]any) map[string]any {
		kind, _, _ := unstructured.NestedString(obj, "kind")
		if slices.Contains(kinds, kind) {
			return nil
		}
		return obj
	}
}

// KeepKinds removes every object whose kind is not one of kinds.
func KeepKinds(kinds ...string) Transformation {
	return func(obj map[string]any) map[string]any {
		kind, _, _ := unstructured.NestedString(obj, "kind")
		if !slices.Contains(kinds, kind) {
			return nil
		}
		return obj
	}
}

// JSONPatch applies an RFC 6902 patch to every object of the given kind and
// name. Empty kind or name match any object. Removing a missing path is not
// an error and add creates missing parents; an object the patch cannot be
// applied to is passed through unchanged.
func JSONPatch(kind, name string, patch []byte) (Transformation, error) {
	decoded, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to decode json patch: %w", err)
	}

	opts := jsonpatch.NewApplyOptions()
	opts.AllowMissingPathOnRemove = true
	opts.EnsurePathExistsOnAdd = true

	return func(obj map[string]any) map[string]any {
		if k, _, _ := unstructured.NestedString(obj, "kind"); kind != "" && k != kind {
			return obj
		}
		if n, _, _ := unstructured.NestedString(obj, "metadata", "name"); name != "" && n != name {
			return obj
		}

		doc, err := json.Marshal(obj)
		if err != nil {
			return obj
		}
		patched, err := decoded.ApplyWithOptions(doc, opts)
		if err != nil {
			return obj
		}
		var out map[string]any
		if err := json.Unmarshal(patched, &out); err != nil {
			return obj
		}
		return out
	}, nil
}
