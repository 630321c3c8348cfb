package cmd

import (
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
)

// sortValue is a pflag.Value holding "field:order,..." sort criteria.
type sortValue struct {
	criteria []config.SortCriterion
}

var _ pflag.Value = (*sortValue)(nil)

func (v *sortValue) String() string {
	return config.FormatSortCriteria(v.criteria)
}

func (v *sortValue) Set(s string) error {
	criteria, err := config.ParseSortCriteria(s)
	if err != nil {
		return err
	}
	v.criteria = criteria
	return nil
}

func (v *sortValue) Type() string {
	return "criteria"
}

// addSortFlag registers --sort on fs and returns its value holder.
func addSortFlag(fs *pflag.FlagSet) *sortValue {
	v := &sortValue{}
	fs.Var(v, "sort", "sort criteria as FIELD[:asc|desc],... (overrides the view)")
	return v
}
