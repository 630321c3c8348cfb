package view

// Dimension is the attribute tasks are grouped by.
type Dimension string

// Grouping dimensions.
const (
	DimNone     Dimension = "none"
	DimFilePath Dimension = "filePath"
	DimDueDate  Dimension = "dueDate"
	DimPriority Dimension = "priority"
	DimProject  Dimension = "project"
	DimTags     Dimension = "tags"
	DimStatus   Dimension = "status"
)

var dimensions = []Dimension{DimNone, DimFilePath, DimDueDate, DimPriority, DimProject, DimTags, DimStatus}

// Dimensions returns every grouping dimension in menu order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensions))
	copy(out, dimensions)
	return out
}

// DimensionNames returns the dimension names as strings, for flag help.
func DimensionNames() []string {
	out := make([]string, len(dimensions))
	for i, d := range dimensions {
		out[i] = string(d)
	}
	return out
}

// ParseDimension maps a name to a Dimension. Unknown names yield DimNone
// and ok=false. The empty string is DimNone.
func ParseDimension(s string) (d Dimension, ok bool) {
	if s == "" {
		return DimNone, true
	}
	for _, dim := range dimensions {
		if string(dim) == s {
			return dim, true
		}
	}
	return DimNone, false
}

// Next returns the dimension after d in menu order, wrapping around.
func (d Dimension) Next() Dimension {
	for i, dim := range dimensions {
		if dim == d {
			return dimensions[(i+1)%len(dimensions)]
		}
	}
	return DimNone
}

// DimensionLabel returns the display name of a dimension, "None" for
// unknown values.
func DimensionLabel(d Dimension) string {
	switch d {
	case DimFilePath:
		return "File Path"
	case DimDueDate:
		return "Due Date"
	case DimPriority:
		return "Priority"
	case DimProject:
		return "Project"
	case DimTags:
		return "Tags"
	case DimStatus:
		return "Status"
	default:
		return "None"
	}
}
