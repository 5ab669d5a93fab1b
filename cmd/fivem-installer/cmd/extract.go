package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/fivem-installer/internal/service/extractor"
)

var (
	// extractDir is where the archive is unpacked.
	extractDir string

	// extractCmd unpacks an archive with the installer rules.
	extractCmd = &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract a .7z, .tar.xz or .zip archive and delete it",
		Long:  "Extracts an archive without overwriting an existing .gitignore, then deletes the archive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return extractor.New(extractor.WithDir(extractDir)).ExtractAndRemove(cmd.Context(), args[0])
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", ".", "destination directory")
}
