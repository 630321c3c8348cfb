package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list [VIEW]",
	Aliases: []string{"ls"},
	Short:   "List the tasks of a view",
	Long: `Filters the task snapshot through a view, groups the result and sorts
every group. The grouping dimension comes from --group-by, then the
dimension stored with 'tasklens group', then the view configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listSort *sortValue

func init() {
	listCmd.Flags().String("group-by", "", "group by dimension ("+strings.Join(view.DimensionNames(), ", ")+")")
	listCmd.Flags().Bool("nested", false, "nest file groups under their folders (filePath only)")
	listCmd.Flags().StringP("search", "s", "", "only tasks whose content contains this text (case-insensitive)")
	listCmd.Flags().IntP("limit", "n", 0, "limit tasks per group")
	listSort = addSortFlag(listCmd.Flags())
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	viewID, err := resolveView(cfg, args)
	if err != nil {
		return err
	}

	groupByFlag, _ := cmd.Flags().GetString("group-by")
	var flagDim view.Dimension
	if groupByFlag != "" {
		if flagDim, err = parseDimension(groupByFlag); err != nil {
			return err
		}
	}
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}

	q := view.Query{
		ViewID:    viewID,
		GroupBy:   effectiveGroupBy(flagDim, loadState(cfg), cfg.ViewOrDefault(viewID)),
		TextQuery: search,
		Limit:     limit,
		Now:       time.Now(),
	}
	if cmd.Flags().Changed("nested") {
		nested, _ := cmd.Flags().GetBool("nested")
		q.Nested = &nested
	}
	if cmd.Flags().Changed("sort") {
		q.Sort = listSort.criteria
	}

	res := view.Run(tasks, cfg, q)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, res)
	case output.FormatCompact:
		output.GroupsCompact(os.Stdout, res, cfg)
	default:
		output.GroupsTable(os.Stdout, res, cfg, q.Now)
	}
	return nil
}
