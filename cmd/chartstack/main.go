// Package main is the entry point for the chartstack CLI.
//
// chartstack installs a curated set of Helm charts (networking, autoscaling,
// ingress, GitOps, monitoring and logging) into an existing EKS cluster.
// Charts are described in a single YAML file and applied in dependency order.
//
// Commands: init, render, plan, apply, version.
//
// For detailed usage information, run:
//
//	chartstack --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/chartstack/cmd/chartstack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
