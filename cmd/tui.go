package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/tui"
	"github.com/twiced-technology-gmbh/tasklens/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [VIEW]",
	Short: "Open the interactive browser",
	Long: `Opens the grouped task browser. g cycles the grouping dimension, space
toggles a group, / filters by text, [ and ] switch views. The browser
reloads when the snapshot or the config changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	viewID, err := resolveView(cfg, args)
	if err != nil {
		return err
	}

	model := tui.NewBrowser(cfg, viewID)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Browser, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the browser works without live reload
	}
	defer w.Close()
	w.Run(ctx, nil)
}
