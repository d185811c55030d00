package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chartstack/internal/config"
	"github.com/imamik/chartstack/internal/config/wizard"
)

func testWizardResult() *wizard.WizardResult {
	role := "arn:aws:iam::123456789012:role/dns"
	return &wizard.WizardResult{
		ClusterName:   "prod",
		Region:        "eu-west-1",
		Domain:        "example.com",
		EnabledAddons: []string{"cilium", "externalDns"},
		RoleARNs:      map[string]*string{"externalDns": &role},
	}
}

func TestInit(t *testing.T) {
	saveAndRestoreFactories(t)
	isInteractiveTTY = func() bool { return true }
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*wizard.WizardResult, error) { return testWizardResult(), nil }

	var (
		written *config.Config
		path    string
	)
	writeConfig = func(cfg *config.Config, outputPath string) error {
		written, path = cfg, outputPath
		return nil
	}

	output := captureOutput(t, func() {
		require.NoError(t, Init(context.Background(), "stack.yaml", false))
	})

	require.NotNil(t, written)
	assert.Equal(t, "stack.yaml", path)
	assert.Equal(t, "prod", written.Cluster.Name)
	assert.True(t, written.Addons.ExternalDNS.Enabled)

	assert.Contains(t, output, "chartstack - Helm chart stacks for EKS")
	assert.Contains(t, output, "Configuration saved!")
	assert.Contains(t, output, "File: stack.yaml")
	assert.Contains(t, output, "Domain:   example.com")
	assert.Contains(t, output, "chartstack apply")
}

func TestInit_Errors(t *testing.T) {
	errCanceled := errors.New("user aborted")
	errWrite := errors.New("disk full")

	tests := []struct {
		name      string
		tty       bool
		exists    bool
		force     bool
		wizardErr error
		writeErr  error
		wantIs    error
		wantMsg   string
	}{
		{name: "not a terminal", wantIs: ErrNotInteractive, tty: false},
		{name: "file exists", tty: true, exists: true, wantMsg: "stack.yaml already exists"},
		{name: "wizard canceled", tty: true, wizardErr: errCanceled, wantIs: errCanceled, wantMsg: "wizard canceled"},
		{name: "write fails", tty: true, exists: true, force: true, writeErr: errWrite, wantIs: errWrite, wantMsg: "failed to write config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveAndRestoreFactories(t)
			isInteractiveTTY = func() bool { return tt.tty }
			fileExists = func(string) bool { return tt.exists }
			runWizard = func(context.Context) (*wizard.WizardResult, error) {
				if tt.wizardErr != nil {
					return nil, tt.wizardErr
				}
				return testWizardResult(), nil
			}
			writeConfig = func(*config.Config, string) error { return tt.writeErr }

			var err error
			captureOutput(t, func() {
				err = Init(context.Background(), "stack.yaml", tt.force)
			})

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
