package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/state"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

var groupCmd = &cobra.Command{
	Use:   "group VIEW [DIMENSION]",
	Short: "Show or store the grouping dimension of a view",
	Long: `Without DIMENSION, prints the effective grouping of VIEW. With DIMENSION,
stores it as the view's grouping for list and the interactive browser.
Valid dimensions: ` + strings.Join(view.DimensionNames(), ", ") + `.
Use --reset to forget the stored dimension and expanded groups.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // view and optional dimension
	RunE: runGroup,
}

func init() {
	groupCmd.Flags().Bool("reset", false, "forget stored grouping and expanded groups for the view")
	rootCmd.AddCommand(groupCmd)
}

func runGroup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	viewID, err := resolveView(cfg, args[:1])
	if err != nil {
		return err
	}
	store := state.NewStore(cfg.Dir())
	ctx := context.Background()

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := store.ClearView(ctx, viewID); err != nil {
			return err
		}
	} else if len(args) == 2 { //nolint:mnd // dimension given
		dim, err := parseDimension(args[1])
		if err != nil {
			return err
		}
		if err := store.SetGroupBy(ctx, viewID, dim); err != nil {
			return err
		}
	}

	dim := dimensionOrNone(effectiveGroupBy("", loadState(cfg), cfg.ViewOrDefault(viewID)))
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"view": viewID, "groupBy": dim})
	}
	output.Messagef(os.Stdout, "%s: grouped by %s", viewID, view.DimensionLabel(view.Dimension(dim)))
	return nil
}
