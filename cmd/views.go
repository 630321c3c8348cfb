package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List configured views",
	Long: `Lists every configured view with its effective grouping (including
dimensions stored with 'tasklens group') and sort criteria. The default
view is marked with *.`,
	Args: cobra.NoArgs,
	RunE: runViews,
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}

func runViews(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := loadState(cfg)

	defaultID := cfg.DefaultView
	if defaultID == "" {
		defaultID = config.DefaultViewID
	}

	views := make([]output.ViewSummary, 0, len(cfg.Views))
	for _, vc := range cfg.Views {
		criteria := vc.SortCriteria
		if len(criteria) == 0 {
			criteria = config.DefaultSortCriteria
		}
		name := vc.Name
		if name == "" {
			name = vc.ID
		}
		views = append(views, output.ViewSummary{
			ID:      vc.ID,
			Name:    name,
			GroupBy: string(effectiveGroupBy("", st, vc)),
			Nested:  vc.NestedFiles,
			Sort:    config.FormatSortCriteria(criteria),
			Hide:    vc.HideCompletedAndAbandonedTasks,
			Default: vc.ID == defaultID,
		})
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, views)
	case output.FormatCompact:
		output.ViewsCompact(os.Stdout, views)
	default:
		output.ViewsTable(os.Stdout, views)
	}
	return nil
}

// dimensionOrNone renders an empty dimension as none.
func dimensionOrNone(d view.Dimension) string {
	if d == "" {
		return string(view.DimNone)
	}
	return string(d)
}
