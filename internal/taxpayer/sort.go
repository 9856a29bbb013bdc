package taxpayer

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies a sortable record attribute.
type Column string

const (
	ColumnTID       Column = "tid"
	ColumnFirstName Column = "firstName"
	ColumnLastName  Column = "lastName"
	ColumnAddress   Column = "address"
)

// Columns lists every column in display order.
var Columns = []Column{ColumnTID, ColumnFirstName, ColumnLastName, ColumnAddress}

// Title returns the column header shown to users.
func (c Column) Title() string {
	switch c {
	case ColumnTID:
		return "TID"
	case ColumnFirstName:
		return "First Name"
	case ColumnLastName:
		return "Last Name"
	case ColumnAddress:
		return "Address"
	}
	return string(c)
}

// Value returns the display text of r for this column.
func (c Column) Value(r Record) string {
	switch c {
	case ColumnTID:
		return fmt.Sprintf("%d", r.TID)
	case ColumnFirstName:
		return r.FirstName
	case ColumnLastName:
		return r.LastName
	case ColumnAddress:
		return r.Address
	}
	return ""
}

// ParseColumn resolves a column name. Matching ignores case, dashes and
// underscores, so "last_name", "lastname" and "lastName" are equivalent.
func ParseColumn(name string) (Column, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	for _, c := range Columns {
		if strings.ToLower(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q: must be one of %v", name, Columns)
}

// Sort returns a sorted copy of records; the input is not modified.
// The sort is stable, so equal keys keep store order. TIDs compare
// numerically and text columns use case-insensitive English collation.
func Sort(records []Record, by Column, descending bool) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	var less func(a, b Record) int
	if by == ColumnTID {
		less = func(a, b Record) int {
			switch {
			case a.TID < b.TID:
				return -1
			case a.TID > b.TID:
				return 1
			}
			return 0
		}
	} else {
		// Collators keep internal buffers; one per call keeps Sort goroutine-safe.
		col := collate.New(language.English, collate.IgnoreCase)
		less = func(a, b Record) int {
			return col.CompareString(by.Value(a), by.Value(b))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i]) < 0
		}
		return less(out[i], out[j]) < 0
	})
	return out
}
