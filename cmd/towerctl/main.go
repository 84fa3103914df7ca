// Package main is the entry point for the towerctl CLI.
//
// towerctl provisions and governs an AWS multi-account landing zone:
// organization prerequisites, Control Tower deployment, guardrail policies,
// and the organization-wide security baseline. It is stateless and
// declarative; every run reconciles the organization toward the
// configuration file.
//
// Commands: validate, prereqs, deploy, baseline, status, policy, version.
//
// For detailed usage information, run:
//
//	towerctl --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/towerctl/cmd/towerctl/commands"
	"github.com/imamik/towerctl/internal/errs"
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
		os.Exit(errs.ExitCode(err))
	}
}
