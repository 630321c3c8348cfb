// Package cmd implements the tasklens CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/state"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "tasklens",
	Short: "Filter, group and sort markdown task snapshots",
	Long: `tasklens shows the tasks exported from your notes through configurable views.
Each view filters the snapshot, groups it by a dimension (file, due date,
priority, project, tag or status) and sorts every group.
Run tasklens without arguments to open the interactive browser.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the .tasklens config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.SetFlagErrorFunc(flagError)
}

// flagError gives flag parsing failures a structured code. Subcommands
// inherit it from the root.
func flagError(_ *cobra.Command, err error) error {
	if strings.Contains(err.Error(), `"--sort"`) {
		return clierr.New(clierr.InvalidSort, err.Error())
	}
	return clierr.New(clierr.InvalidInput, err.Error())
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	jsonMode := flagJSON || os.Getenv(output.EnvFormat) == "json"

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/tasklens.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tasklens"), nil
}

// resolveDir returns the config directory: --dir, then the nearest
// .tasklens upward from the working directory, then ~/.config/tasklens.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}
	return defaultHomeDir()
}

// loadConfig finds and loads the config. The home fallback directory is
// created with defaults on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, config.ErrInvalid) {
		return nil, clierr.New(clierr.InvalidInput, err.Error()).
			WithDetails(map[string]any{"config": filepath.Join(dir, config.ConfigFileName)})
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.New(clierr.ConfigNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(homeDir)
}

// loadTasks reads the snapshot configured in cfg and reports skipped
// records on stderr.
func loadTasks(cfg *config.Config) ([]*task.Task, error) {
	tasks, warnings, err := task.ReadSnapshot(cfg.SnapshotPath(), cfg)
	if err != nil {
		return nil, err
	}
	printWarnings(warnings)
	return tasks, nil
}

// loadState reads the stored view state. Failures degrade to an empty
// state with a warning, since state only affects presentation.
func loadState(cfg *config.Config) *state.State {
	st, err := state.NewStore(cfg.Dir()).Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return &state.State{}
	}
	return st
}

// resolveView returns the id of the view named by args, or the default
// view. Unknown ids are an error at the command line.
func resolveView(cfg *config.Config, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		if cfg.DefaultView != "" {
			return cfg.DefaultView, nil
		}
		return config.DefaultViewID, nil
	}
	id := args[0]
	if _, ok := cfg.ViewByID(id); !ok {
		return "", clierr.Newf(clierr.ViewNotFound, "view %q not found; configured: %s",
			id, strings.Join(cfg.ViewIDs(), ", ")).
			WithDetails(map[string]any{"view": id})
	}
	return id, nil
}

// parseDimension validates a --group-by value.
func parseDimension(s string) (view.Dimension, error) {
	dim, ok := view.ParseDimension(s)
	if !ok {
		return "", clierr.Newf(clierr.InvalidGroupBy, "invalid group-by dimension %q; valid: %s",
			s, strings.Join(view.DimensionNames(), ", "))
	}
	return dim, nil
}

// effectiveGroupBy applies the group-by precedence: flag, stored state,
// view configuration.
func effectiveGroupBy(flag view.Dimension, st *state.State, vc config.ViewConfig) view.Dimension {
	if flag != "" {
		return flag
	}
	if dim, ok := st.GroupBy(vc.ID); ok {
		return dim
	}
	dim, _ := view.ParseDimension(vc.GroupBy)
	return dim
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes snapshot read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping snapshot record %d: %v\n", w.Index, w.Err)
	}
}
