package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
	"github.com/twiced-technology-gmbh/tasklens/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board [VIEW]",
	Aliases: []string{"summary"},
	Short:   "Show a snapshot overview",
	Long: `Displays task counts per status group, overdue counts, the priority
distribution and due-date buckets. With a VIEW argument only the tasks
visible in that view are counted.

Use --watch to keep the display live-updating. The overview re-renders
whenever the snapshot or the config changes on disk. Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update on snapshot or config changes")
}

func runBoard(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	viewID := ""
	if len(args) > 0 {
		if viewID, err = resolveView(cfg, args); err != nil {
			return err
		}
	}

	if err := renderBoard(cfg, viewID); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(cfg, viewID)
}

func renderBoard(cfg *config.Config, viewID string) error {
	tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	title := "All tasks"
	if viewID != "" {
		vc := cfg.ViewOrDefault(viewID)
		tasks = view.FilterWith(tasks, vc, cfg, view.FilterOptions{Now: now})
		title = vc.Name
		if title == "" {
			title = vc.ID
		}
	}

	summary := view.Summarize(tasks, cfg, now)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, title, summary)
	default:
		output.OverviewTable(os.Stdout, title, summary)
	}
	return nil
}

func watchBoard(cfg *config.Config, viewID string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{cfg.SnapshotPath(), cfg.ConfigPath()}, func() {
		clearScreen()
		// Re-load config in case statuses or views changed.
		freshCfg, loadErr := config.Load(cfg.Dir())
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: reloading config: %v\n", loadErr)
			freshCfg = cfg
		}
		if renderErr := renderBoard(freshCfg, viewID); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
