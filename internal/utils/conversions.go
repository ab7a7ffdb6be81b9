package utils

import (
	"fmt"
	"strings"
)

// CellString renders an untyped spreadsheet cell as trimmed text
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case fmt.Stringer:
		return strings.TrimSpace(c.String())
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

// CellAt returns the cell at index i, or "" when the row is shorter
func CellAt(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return CellString(row[i])
}
