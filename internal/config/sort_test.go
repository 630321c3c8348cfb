package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortCriteria(t *testing.T) {
	got, err := ParseSortCriteria(" dueDate, priority:DESC ,,content:asc")
	require.NoError(t, err)
	want := []SortCriterion{
		{Field: FieldDueDate, Order: OrderAsc},
		{Field: FieldPriority, Order: OrderDesc},
		{Field: FieldContent, Order: OrderAsc},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("criteria mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "dueDate:asc,priority:desc,content:asc", FormatSortCriteria(got))
}

func TestParseSortCriteriaErrors(t *testing.T) {
	for _, in := range []string{"urgency", "dueDate:up", "priority:desc,colour"} {
		_, err := ParseSortCriteria(in)
		assert.Error(t, err, in)
	}
}

func TestParseSortCriteriaEmpty(t *testing.T) {
	got, err := ParseSortCriteria("  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSortCriterionStringDefaultsToAsc(t *testing.T) {
	assert.Equal(t, "status:asc", SortCriterion{Field: FieldStatus}.String())
}
