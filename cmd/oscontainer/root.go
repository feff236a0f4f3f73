// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for oscontainer.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"oscontainer/internal/config"
	"oscontainer/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
	// workdir is the working directory for container storage and temp files.
	workdir string
	// disableTLSVerify turns off registry certificate verification.
	disableTLSVerify bool
	// certDir is an extra certificate directory for registry TLS.
	certDir string
	// authFile is the registry authentication file.
	authFile string

	// cfg is the resolved configuration, populated by initRootConfig.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "oscontainer",
		Short: "Move ostree commits in and out of OCI container images",
		Long: TitleStyle.Render("oscontainer") + SubtitleStyle.Render(" - move ostree commits in and out of OCI container images") + `

An oscontainer is a container image carrying an ostree repository at
/srv/repo with a single commit, identified by the ` + CmdStyle.Render("com.coreos.ostree-commit") + `
label. The image is a transport vehicle: it is pulled and mounted, never run.

` + SubtitleStyle.Render("Examples:") + `
  oscontainer extract quay.io/openshift/os:latest ./repo
  oscontainer build ./repo my-ref quay.io/example/os:latest --push`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/oscontainer/config.cue)")
	rootCmd.PersistentFlags().StringVar(&workdir, "workdir", "", "working directory for container storage and temporary files")
	rootCmd.PersistentFlags().BoolVar(&disableTLSVerify, "disable-tls-verify", false, "disable TLS certificate verification against registries")
	rootCmd.PersistentFlags().StringVar(&certDir, "cert-dir", "", "extra certificate directory for registry TLS")
	rootCmd.PersistentFlags().StringVar(&authFile, "authfile", "", "registry authentication file")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(buildCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads configuration and wires the global logger. Flags
// beat config values; config values beat environment and defaults.
func initRootConfig() {
	loaded, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	} else {
		cfg = loaded
	}

	if workdir == "" {
		workdir = cfg.Workdir
	}
	if !disableTLSVerify {
		disableTLSVerify = cfg.DisableTLSVerify
	}
	if certDir == "" {
		certDir = cfg.CertDir
	}
	if authFile == "" {
		authFile = cfg.AuthFile
	}

	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "oscontainer",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// formatErrorForDisplay formats an error for user display. ActionableError
// values render with their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
