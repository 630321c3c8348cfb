package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a tasklens config",
	Long: `Creates a .tasklens directory with a config.yml holding the default
status mapping and views. The snapshot path is relative to that directory
unless absolute; an empty snapshot is created there when none exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("snapshot", config.DefaultSnapshotFile, "path of the task snapshot exported by the indexer")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.ConfigAlreadyExists, "tasklens already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := config.NewDefault()
	cfg.SetDir(absDir)
	if snapshot, _ := cmd.Flags().GetString("snapshot"); snapshot != "" {
		cfg.SnapshotFile = snapshot
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	// An empty snapshot lets list and tui run before the first export.
	if _, err := os.Stat(cfg.SnapshotPath()); os.IsNotExist(err) {
		if err := task.WriteSnapshot(cfg.SnapshotPath(), []*task.Task{}); err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":   "initialized",
			"dir":      absDir,
			"config":   cfg.ConfigPath(),
			"snapshot": cfg.SnapshotPath(),
			"views":    cfg.ViewIDs(),
		})
	}

	output.Messagef(os.Stdout, "Initialized tasklens in %s", absDir)
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Snapshot: %s", cfg.SnapshotPath())
	output.Messagef(os.Stdout, "  Views:    %d (default %s)", len(cfg.Views), cfg.DefaultView)
	return nil
}
