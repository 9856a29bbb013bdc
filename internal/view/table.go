package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// DefaultPageSize matches the rows-per-page of the original web table.
const DefaultPageSize = 10

// Table renders snapshots as a sorted, paginated text table.
// The zero value sorts by TID ascending with DefaultPageSize rows.
type Table struct {
	SortBy     taxpayer.Column
	Descending bool
	PageSize   int
	// Page is 1-based; out-of-range values are clamped.
	Page int
}

// Render writes snap to w. While the snapshot is busy only the loading
// indicator is shown.
func (t Table) Render(w io.Writer, snap session.Snapshot) error {
	if _, err := fmt.Fprintln(w, "TaxPayer Records"); err != nil {
		return err
	}
	if snap.Busy {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}
	if len(snap.Records) == 0 {
		_, err := fmt.Fprintln(w, "There are no records to display")
		return err
	}

	sortBy := t.sortColumn()
	rows, page, pages := t.paginate(taxpayer.Sort(snap.Records, sortBy, t.Descending))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range taxpayer.Columns {
		sep := "\t"
		if i == len(taxpayer.Columns)-1 {
			sep = "\n"
		}
		fmt.Fprint(tw, c.Title()+sep)
	}
	for _, r := range rows {
		for i, c := range taxpayer.Columns {
			sep := "\t"
			if i == len(taxpayer.Columns)-1 {
				sep = "\n"
			}
			fmt.Fprint(tw, c.Value(r)+sep)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	direction := "asc"
	if t.Descending {
		direction = "desc"
	}
	_, err := fmt.Fprintf(w, "page %d/%d, sorted by %s %s, total %d\n",
		page, pages, sortBy, direction, len(snap.Records))
	return err
}

func (t Table) sortColumn() taxpayer.Column {
	if t.SortBy == "" {
		return taxpayer.ColumnTID
	}
	return t.SortBy
}

// paginate returns the rows of the effective page with its number and
// the page count.
func (t Table) paginate(records []taxpayer.Record) ([]taxpayer.Record, int, int) {
	size := t.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(records) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	page := t.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], page, pages
}
