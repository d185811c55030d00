// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/chartstack/internal/engine"
	"github.com/imamik/chartstack/internal/platform/s3"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

// DefaultParallelism is the number of releases applied at once within a level.
const DefaultParallelism = 2

// ApplyOptions holds the flags of the apply command.
type ApplyOptions struct {
	ConfigPath    string
	DryRun        bool
	Parallelism   int
	SkipPreflight bool
	MetricsFile   string
	Verbose       bool
}

// StackApplier applies a stack - matches engine.Engine.
type StackApplier interface {
	Apply(ctx context.Context, s *stack.Stack) (*engine.Report, error)
}

// Factory function variables for apply - can be replaced in tests.
var (
	// newBucketChecker creates the S3 client used by the preflight checks.
	newBucketChecker = func(ctx context.Context, region string) (s3.BucketChecker, error) {
		return s3.NewClient(ctx, region)
	}

	// newEngine creates the apply engine.
	newEngine = func(provider *release.Provider, opts ...engine.Option) StackApplier {
		return engine.New(provider, opts...)
	}

	// newLogger creates the logger handed to the engine.
	newLogger = func(verbose bool) logr.Logger {
		opts := zap.Options{Development: verbose}
		if verbose {
			opts.Level = uberzap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		return zap.New(zap.UseFlagOptions(&opts))
	}

	// writeMetrics writes the gathered metrics to a file.
	writeMetrics = prometheus.WriteToTextfile
)

// Apply installs or upgrades every enabled add-on of the configuration.
//
// The workflow is:
//  1. Load and validate the configuration
//  2. Check that the referenced S3 buckets exist in the cluster region
//  3. Build the release stack
//  4. Apply it level by level, or render it locally with DryRun
//  5. Optionally write the apply metrics to a file
func Apply(ctx context.Context, opts ApplyOptions) error {
	loaded, err := loadStack(opts.ConfigPath, !opts.DryRun)
	if err != nil {
		return err
	}

	if !opts.SkipPreflight && !opts.DryRun {
		if err := preflight(ctx, loaded.config.Cluster.Region, loaded.config.Buckets()); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	e := newEngine(loaded.provider,
		engine.WithLogger(newLogger(opts.Verbose)),
		engine.WithParallelism(opts.Parallelism),
		engine.WithDryRun(opts.DryRun),
		engine.WithRegisterer(reg),
	)

	report, applyErr := e.Apply(ctx, loaded.stack)

	if opts.MetricsFile != "" {
		if err := writeMetrics(opts.MetricsFile, reg); err != nil {
			applyErr = errors.Join(applyErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	if report != nil {
		printReport(stdout, report)
	}
	return applyErr
}

func preflight(ctx context.Context, region string, buckets []string) error {
	if len(buckets) == 0 {
		return nil
	}
	checker, err := newBucketChecker(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3.CheckBuckets(ctx, checker, region, buckets); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}
	return nil
}

func printReport(w io.Writer, report *engine.Report) {
	outcomes := report.Sorted()
	if report.DryRun {
		for _, o := range outcomes {
			fmt.Fprintf(w, "# Source: %s (%s)\n", o.Name, o.Kind)
			_, _ = w.Write(o.Manifests)
		}
		return
	}

	fmt.Fprintln(w)
	for _, o := range outcomes {
		fmt.Fprintf(w, "  [OK]  level %d  %-30s %s\n", o.Level, o.Name, o.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "\n%d releases applied.\n", len(outcomes))
}
