package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify the configuration",
	Long: `View the full configuration, get a specific key, set a writable value,
or import the settings of the note plugin.

Per-view keys have the form views.<id>.<field> with field one of
name, group_by, nested_files, sort, hide_completed.`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

var configImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import views and status mappings from the note plugin's data.json",
	Long: `Reads the plugin settings file (JSON, comments and trailing commas
allowed) and merges its view configuration and task status mapping into
config.yml. Views with the same id are replaced; their grouping is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configImportCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	accessors := map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"snapshot_file": {
			get: func(c *config.Config) any { return c.SnapshotFile },
			set: func(c *config.Config, v string) error {
				if strings.TrimSpace(v) == "" {
					return clierr.New(clierr.InvalidInput, "snapshot_file must not be empty")
				}
				c.SnapshotFile = v
				return nil
			},
			writable: true,
		},
		"default_view": {
			get: func(c *config.Config) any { return c.DefaultView },
			set: func(c *config.Config, v string) error {
				if _, ok := c.ViewByID(v); !ok {
					return clierr.Newf(clierr.ViewNotFound, "view %q not found; configured: %s",
						v, strings.Join(c.ViewIDs(), ", "))
				}
				c.DefaultView = v
				return nil
			},
			writable: true,
		},
		"count_other_statuses_as": {
			get: func(c *config.Config) any { return string(c.CountOtherStatusesAs) },
			set: func(c *config.Config, v string) error {
				g, err := parseStatusGroup(v)
				if err != nil {
					return err
				}
				c.CountOtherStatusesAs = g
				return nil
			},
			writable: true,
		},
		"status_order": {
			get: func(c *config.Config) any { return statusGroupNames(c.OrderedStatusGroups()) },
			set: func(c *config.Config, v string) error {
				var order []config.StatusGroup
				for _, s := range strings.Split(v, ",") {
					g, err := parseStatusGroup(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					order = append(order, g)
				}
				c.StatusOrder = order
				return nil
			},
			writable: true,
		},
		"views": {
			get: func(c *config.Config) any { return c.ViewIDs() },
		},
	}
	for _, g := range config.StatusGroups() {
		accessors["task_statuses."+string(g)] = configAccessor{
			get: func(c *config.Config) any { return c.TaskStatuses[g] },
			set: func(c *config.Config, v string) error {
				if c.TaskStatuses == nil {
					c.TaskStatuses = config.DefaultTaskStatuses()
				}
				c.TaskStatuses[g] = v
				return nil
			},
			writable: true,
		}
	}
	return accessors
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	keys := []string{"version", "snapshot_file", "default_view", "count_other_statuses_as", "status_order"}
	for _, g := range config.StatusGroups() {
		keys = append(keys, "task_statuses."+string(g))
	}
	return append(keys, "views")
}

// viewAccessor resolves a views.<id>.<field> key.
func viewAccessor(cfg *config.Config, key string) (configAccessor, bool, error) {
	rest, ok := strings.CutPrefix(key, "views.")
	if !ok {
		return configAccessor{}, false, nil
	}
	i := strings.LastIndexByte(rest, '.')
	if i <= 0 {
		return configAccessor{}, false, nil
	}
	id, field := rest[:i], rest[i+1:]
	if _, found := cfg.ViewByID(id); !found {
		return configAccessor{}, false, clierr.Newf(clierr.ViewNotFound, "view %q not found", id).
			WithDetails(map[string]any{"view": id})
	}
	vc := func(c *config.Config) *config.ViewConfig {
		v, _ := c.ViewByID(id)
		return v
	}

	switch field {
	case "name":
		return configAccessor{
			get:      func(c *config.Config) any { return vc(c).Name },
			set:      func(c *config.Config, v string) error { vc(c).Name = v; return nil },
			writable: true,
		}, true, nil
	case "group_by":
		return configAccessor{
			get: func(c *config.Config) any { return vc(c).GroupBy },
			set: func(c *config.Config, v string) error {
				dim, err := parseDimension(v)
				if err != nil {
					return err
				}
				vc(c).GroupBy = string(dim)
				return nil
			},
			writable: true,
		}, true, nil
	case "nested_files":
		return configAccessor{
			get:      func(c *config.Config) any { return vc(c).NestedFiles },
			set:      boolSetter(func(c *config.Config, b bool) { vc(c).NestedFiles = b }, key),
			writable: true,
		}, true, nil
	case "hide_completed":
		return configAccessor{
			get: func(c *config.Config) any { return vc(c).HideCompletedAndAbandonedTasks },
			set: boolSetter(func(c *config.Config, b bool) {
				vc(c).HideCompletedAndAbandonedTasks = b
			}, key),
			writable: true,
		}, true, nil
	case "sort":
		return configAccessor{
			get: func(c *config.Config) any { return config.FormatSortCriteria(vc(c).SortCriteria) },
			set: func(c *config.Config, v string) error {
				criteria, err := config.ParseSortCriteria(v)
				if err != nil {
					return clierr.New(clierr.InvalidSort, err.Error())
				}
				vc(c).SortCriteria = criteria
				return nil
			},
			writable: true,
		}, true, nil
	}
	return configAccessor{}, false, nil
}

func lookupAccessor(cfg *config.Config, key string) (configAccessor, error) {
	if acc, ok := configAccessors()[key]; ok {
		return acc, nil
	}
	acc, ok, err := viewAccessor(cfg, key)
	if err != nil {
		return configAccessor{}, err
	}
	if !ok {
		return configAccessor{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	return acc, nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupAccessor(cfg, args[0])
	if err != nil {
		return err
	}
	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, err := lookupAccessor(cfg, key)
	if err != nil {
		return err
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}
	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := saveValidated(cfg); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func runConfigImport(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	summary, err := cfg.ImportPluginFile(args[0])
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error()).
			WithDetails(map[string]any{"file": args[0]})
	}
	if err := saveValidated(cfg); err != nil {
		return err
	}
	for _, s := range summary.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", s)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	output.Messagef(os.Stdout, "Imported %d views and %d status groups from %s",
		summary.Views, summary.StatusGroups, args[0])
	return nil
}

// saveValidated validates cfg and writes it back to config.yml.
func saveValidated(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func boolSetter(fn func(*config.Config, bool), key string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
		}
		fn(c, b)
		return nil
	}
}

func parseStatusGroup(s string) (config.StatusGroup, error) {
	g := config.StatusGroup(s)
	if !g.Valid() {
		return "", clierr.Newf(clierr.InvalidInput, "invalid status group %q; valid: %s",
			s, strings.Join(statusGroupNames(config.StatusGroups()), ", "))
	}
	return g, nil
}

func statusGroupNames(groups []config.StatusGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return names
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		if strings.TrimSpace(v) != v {
			return strconv.Quote(v)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
