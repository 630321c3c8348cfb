package view

import (
	"cmp"
	"slices"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/date"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
)

// Sort returns a stably sorted copy of tasks. Criteria are applied in order;
// the first one that tells two tasks apart decides. Tasks without a date
// sort after dated ones regardless of direction. Unknown fields compare
// equal, so an empty or unknown criteria list keeps the input order.
func Sort(tasks []*task.Task, criteria []config.SortCriterion, cfg *config.Config) []*task.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []*task.Task{}
	}
	if len(criteria) == 0 {
		return out
	}
	s := sorter{criteria: criteria, cfg: cfg, col: newCollator()}
	slices.SortStableFunc(out, s.compare)
	return out
}

type sorter struct {
	criteria []config.SortCriterion
	cfg      *config.Config
	col      *collator
}

func (s sorter) compare(a, b *task.Task) int {
	for _, sc := range s.criteria {
		if c := s.compareField(a, b, sc); c != 0 {
			return c
		}
	}
	return 0
}

func (s sorter) compareField(a, b *task.Task, sc config.SortCriterion) int {
	desc := sc.Order == config.OrderDesc
	switch sc.Field {
	case config.FieldDueDate:
		return compareDates(a.Metadata.DueDate, b.Metadata.DueDate, desc)
	case config.FieldStartDate:
		return compareDates(a.Metadata.StartDate, b.Metadata.StartDate, desc)
	case config.FieldScheduledDate:
		return compareDates(a.Metadata.ScheduledDate, b.Metadata.ScheduledDate, desc)
	case config.FieldCompletedDate:
		return compareDates(a.Metadata.CompletedDate, b.Metadata.CompletedDate, desc)
	case config.FieldPriority:
		return direct(cmp.Compare(a.Metadata.Priority, b.Metadata.Priority), desc)
	case config.FieldContent:
		return direct(s.col.compare(a.Content, b.Content), desc)
	case config.FieldFilePath:
		return direct(s.col.compare(a.FilePath, b.FilePath), desc)
	case config.FieldProject:
		return direct(s.col.compare(a.Metadata.Project, b.Metadata.Project), desc)
	case config.FieldContext:
		return direct(s.col.compare(a.Metadata.Context, b.Metadata.Context), desc)
	case config.FieldStatus:
		return direct(cmp.Compare(s.statusOrdinal(a), s.statusOrdinal(b)), desc)
	case config.FieldLineNumber:
		return direct(cmp.Compare(a.Line, b.Line), desc)
	default:
		return 0
	}
}

func (s sorter) statusOrdinal(t *task.Task) int {
	return s.cfg.StatusOrdinal(s.cfg.StatusGroupOf(t.Mark()))
}

func direct(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

// compareDates orders present dates by direction and always puts absent
// dates last.
func compareDates(a, b *date.Timestamp, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return direct(cmp.Compare(a.Millis(), b.Millis()), desc)
}
