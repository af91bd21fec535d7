package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daryltucker/busmerge/internal/assets"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a starter busmerge.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDir := "."
			if len(args) == 1 {
				targetDir = args[0]
			}

			if err := os.MkdirAll(targetDir, 0755); err != nil {
				return fmt.Errorf("failed to create target directory %s: %w", targetDir, err)
			}

			content, err := fs.ReadFile(assets.Templates, assets.ConfigTemplate)
			if err != nil {
				return fmt.Errorf("failed to read embedded config template: %w", err)
			}

			targetPath := filepath.Join(targetDir, assets.ConfigTemplate)
			if _, err := os.Stat(targetPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", targetPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", targetPath, err)
			}

			if err := os.WriteFile(targetPath, content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", targetPath, err)
			}

			output.Logger.Info("Wrote config", "path", targetPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
