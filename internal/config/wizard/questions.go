package wizard

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

var (
	clusterNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]{0,61}[a-z0-9])?$`)
	domainRegex      = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)
)

// runClusterGroup prompts for the cluster identity.
func runClusterGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("Name of the EKS cluster").
				Placeholder("my-cluster").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region of the cluster").
				Options(RegionOptions()...).
				Value(&result.Region),
			huh.NewInput().
				Title("Kubeconfig Context (Optional)").
				Description("Leave empty to use the current context").
				Value(&result.Context),
		).Title("Cluster"),
	).RunWithContext(ctx)
}

// runIngressGroup prompts for the parent domain of add-on hostnames.
func runIngressGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ingress Domain (Optional)").
				Description("Add-on UIs are exposed as <name>.<domain>").
				Placeholder("example.com").
				Value(&result.Domain).
				Validate(validateDomain),
		).Title("Ingress"),
	).RunWithContext(ctx)
}

// runAddonsGroup prompts for the add-ons to enable.
func runAddonsGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Add-ons").
				Description("Select the add-ons to install").
				Options(AddonOptions()...).
				Value(&result.EnabledAddons),
		).Title("Add-ons"),
	).RunWithContext(ctx)
}

// runRolesGroup prompts for the IAM role of every selected add-on that
// needs one.
func runRolesGroup(ctx context.Context, result *WizardResult) error {
	var fields []huh.Field
	for _, key := range result.EnabledAddons {
		opt, ok := lookupAddon(key)
		if !ok || !opt.NeedsRole {
			continue
		}
		role := new(string)
		result.RoleARNs[key] = role
		fields = append(fields, huh.NewInput().
			Title(opt.Label+" IAM Role ARN").
			Placeholder("arn:aws:iam::123456789012:role/"+key).
			Value(role).
			Validate(validateRoleARN))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("IAM Roles")).RunWithContext(ctx)
}

// runBucketsGroup prompts for the S3 bucket shared by thanos and loki.
func runBucketsGroup(ctx context.Context, result *WizardResult) error {
	needsBucket := false
	for _, key := range result.EnabledAddons {
		if opt, ok := lookupAddon(key); ok && opt.NeedsBucket {
			needsBucket = true
		}
	}
	if !needsBucket {
		return nil
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics Bucket").
				Description("S3 bucket for thanos blocks").
				Value(&result.MetricsBucket),
			huh.NewInput().
				Title("Logs Bucket").
				Description("S3 bucket for loki chunks").
				Value(&result.LogsBucket),
		).Title("Object Storage"),
	).RunWithContext(ctx)
}

func validateClusterName(s string) error {
	if s == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

func validateDomain(s string) error {
	if s == "" {
		return nil
	}
	if !domainRegex.MatchString(s) {
		return errDomainInvalid
	}
	return nil
}

func validateRoleARN(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "arn:") || !strings.Contains(s, ":role/") {
		return errARNInvalid
	}
	return nil
}
