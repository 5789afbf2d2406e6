// Package main is the entry point for the guito CLI.
// guito renders commit messages from a per-project template and a few
// positional shortcodes, and wraps common git workflows in short commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/preguito/preguito/internal/cmd"
	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, short, date)
}

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(buildVersion()))
	os.Exit(apperrors.GetExitCode(err))
}
