package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	ClusterName string
	Region      string
	Context     string

	Domain string

	EnabledAddons []string

	// RoleARNs maps add-on keys to their IAM role.
	RoleARNs map[string]*string

	MetricsBucket string
	LogsBucket    string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Region:   "eu-central-1",
		RoleARNs: make(map[string]*string),
	}

	if err := runClusterGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}

	if err := runIngressGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("ingress: %w", err)
	}

	if err := runAddonsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("addons: %w", err)
	}

	if err := runRolesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}

	if err := runBucketsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("buckets: %w", err)
	}

	return result, nil
}

func (r *WizardResult) roleARN(key string) string {
	if p := r.RoleARNs[key]; p != nil {
		return *p
	}
	return ""
}

// containsAddon checks if an addon is in the enabled list.
func containsAddon(addons []string, addon string) bool {
	for _, a := range addons {
		if a == addon {
			return true
		}
	}
	return false
}
