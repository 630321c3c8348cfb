package config

import (
	"fmt"
	"slices"
	"strings"
)

// SortField names a task attribute a view can sort on.
type SortField string

// Sortable task attributes.
const (
	FieldDueDate       SortField = "dueDate"
	FieldStartDate     SortField = "startDate"
	FieldScheduledDate SortField = "scheduledDate"
	FieldCompletedDate SortField = "completedDate"
	FieldPriority      SortField = "priority"
	FieldContent       SortField = "content"
	FieldStatus        SortField = "status"
	FieldFilePath      SortField = "filePath"
	FieldProject       SortField = "project"
	FieldContext       SortField = "context"
	FieldLineNumber    SortField = "lineNumber"
)

var sortFields = []SortField{
	FieldDueDate, FieldStartDate, FieldScheduledDate, FieldCompletedDate,
	FieldPriority, FieldContent, FieldStatus, FieldFilePath,
	FieldProject, FieldContext, FieldLineNumber,
}

// SortFields returns the sortable field names.
func SortFields() []SortField {
	return slices.Clone(sortFields)
}

// Known reports whether f is a sortable field.
func (f SortField) Known() bool {
	return slices.Contains(sortFields, f)
}

// SortOrder is the direction of a sort criterion.
type SortOrder string

// Sort directions.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortCriterion is one key of a multi-key sort.
type SortCriterion struct {
	Field SortField `yaml:"field" json:"field"`
	Order SortOrder `yaml:"order" json:"order"`
}

// String renders the criterion as FIELD:ORDER.
func (sc SortCriterion) String() string {
	order := sc.Order
	if order == "" {
		order = OrderAsc
	}
	return string(sc.Field) + ":" + string(order)
}

// ParseSortCriteria parses "field[:asc|desc],..." into criteria.
// Unknown field names are rejected so typos surface on the command line.
func ParseSortCriteria(s string) ([]SortCriterion, error) {
	var out []SortCriterion
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, order, _ := strings.Cut(part, ":")
		sc := SortCriterion{Field: SortField(field), Order: SortOrder(strings.ToLower(order))}
		if sc.Order == "" {
			sc.Order = OrderAsc
		}
		if !sc.Field.Known() {
			return nil, fmt.Errorf("unknown sort field %q", field)
		}
		if sc.Order != OrderAsc && sc.Order != OrderDesc {
			return nil, fmt.Errorf("invalid sort order %q for %s (want asc or desc)", order, field)
		}
		out = append(out, sc)
	}
	return out, nil
}

// FormatSortCriteria is the inverse of ParseSortCriteria.
func FormatSortCriteria(criteria []SortCriterion) string {
	parts := make([]string, len(criteria))
	for i, sc := range criteria {
		parts[i] = sc.String()
	}
	return strings.Join(parts, ",")
}
