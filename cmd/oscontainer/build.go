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
	buildFrom        string
	buildPush        bool
	buildDisplayName string
	buildAddDirs     []string
	buildDigestFile  string
	buildBuildsDir   string

	buildCmd = &cobra.Command{
		Use:   "build <src-repo> <rev> <name>",
		Short: "Build an oscontainer image from an ostree commit",
		Long: `Materialize a revision of a local ostree repository into a container
image: the commit lands in an archive repository at /srv/repo, a sorted
package manifest is written to /pkglist.txt, and the commit, version,
and build provenance are recorded as image labels.

The committed image name and ID are printed on stdout.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], args[1], args[2])
		},
	}
)

func init() {
	buildCmd.Flags().StringVar(&buildFrom, "from", "scratch", "base image to build from")
	buildCmd.Flags().BoolVar(&buildPush, "push", false, "push the committed image to its registry")
	buildCmd.Flags().StringVar(&buildDisplayName, "display-name", "", "OpenShift display name (requires the commit to carry a version)")
	buildCmd.Flags().StringArrayVar(&buildAddDirs, "add-directory", nil, "copy the top-level entries of this directory into the image root (repeatable)")
	buildCmd.Flags().StringVar(&buildDigestFile, "digestfile", "", "write the image digest to this file")
	buildCmd.Flags().StringVar(&buildBuildsDir, "builds-dir", "builds", "build-metadata record directory for provenance labels")
}

func runBuild(cmd *cobra.Command, srcRepo, rev, name string) error {
	state, cleanup, err := prepareWorkdir(workdir)
	if err != nil {
		return err
	}
	defer cleanup()

	podman := container.NewPodman(state.Storage)
	buildah := container.NewBuildah(state.Storage)
	b := oscontainer.NewBuilder(podman, buildah)

	err = b.Build(cmd.Context(), oscontainer.BuildOptions{
		SrcRepo:        srcRepo,
		Rev:            rev,
		Name:           name,
		BaseImage:      buildFrom,
		Push:           buildPush,
		AddDirectories: buildAddDirs,
		DigestFile:     buildDigestFile,
		DisplayName:    buildDisplayName,
		BuildsDir:      buildBuildsDir,
		Registry:       registryOptions(),
		TempDir:        state.TempDir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(buildActionable(err, name), verbose))
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// buildActionable attaches suggestions to the common build failures.
func buildActionable(err error, name string) error {
	ctx := issue.NewErrorContext().
		WithOperation("build oscontainer").
		WithResource(name).
		Wrap(err)

	switch {
	case errors.Is(err, oscontainer.ErrPrecondition):
		ctx.WithSuggestion("Pass a revision whose commit metadata carries a version, or drop --display-name")
	case errors.Is(err, container.ErrProcess):
		ctx.WithSuggestion("Check that podman, buildah, ostree, and rpm-ostree are installed").
			WithSuggestion("For pushes, check registry credentials and pass --authfile if needed")
	}
	return ctx.Build()
}
