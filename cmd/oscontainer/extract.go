// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"oscontainer/internal/container"
	"oscontainer/internal/issue"
	"oscontainer/internal/oscontainer"
)

var (
	extractRef string

	extractCmd = &cobra.Command{
		Use:   "extract <image> <dest-repo>",
		Short: "Extract the ostree commit embedded in an oscontainer image",
		Long: `Pull an oscontainer image and import its embedded ostree commit into
an existing local repository. The destination must already be an
initialized ostree repository; the commit to import is identified by
the image's ` + CmdStyle.Render("com.coreos.ostree-commit") + ` label.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], args[1])
		},
	}
)

func init() {
	extractCmd.Flags().StringVar(&extractRef, "ref", "", "create this ref in the destination repository pointing at the imported commit")
}

func runExtract(cmd *cobra.Command, source, dest string) error {
	state, cleanup, err := prepareWorkdir(workdir)
	if err != nil {
		return err
	}
	defer cleanup()

	podman := container.NewPodman(state.Storage)
	x := oscontainer.NewExtractor(podman,
		oscontainer.WithExtractRetryPolicy(cfg.Retry.Attempts, cfg.Retry.Delay()),
	)

	err = x.Extract(cmd.Context(), oscontainer.ExtractOptions{
		Source:   source,
		Dest:     dest,
		Ref:      extractRef,
		Registry: registryOptions(),
		TempDir:  state.TempDir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(extractActionable(err, source, dest), verbose))
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// extractActionable attaches suggestions to the common extract failures.
func extractActionable(err error, source, dest string) error {
	ctx := issue.NewErrorContext().
		WithOperation("extract oscontainer").
		WithResource(source).
		Wrap(err)

	switch {
	case errors.Is(err, oscontainer.ErrPrecondition):
		ctx.WithSuggestion("Verify the image reference points at an oscontainer, not a regular image")
	case errors.Is(err, container.ErrProcess):
		ctx.WithSuggestion("Check that the registry is reachable and credentials are valid").
			WithSuggestion("Pass --disable-tls-verify for a plain-HTTP registry").
			WithSuggestion(fmt.Sprintf("Initialize the destination with: ostree --repo=%s init --mode=archive", dest))
	}
	return ctx.Build()
}
