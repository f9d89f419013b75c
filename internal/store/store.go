package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"jobharvest/internal/domain"
)

// Columns of the persisted jobs table, in file order. KeyColumn is the dedup column.
var Columns = []string{
	"company_name",
	"job_title",
	"job_location",
	"job_key",
	"job_link",
	"job_summary",
	"salary_label",
}

const KeyColumn = "job_key"

// Store loads and saves the whole jobs table. Load on a missing table returns an empty collection.
type Store interface {
	Load(ctx context.Context) (domain.Collection, error)
	Save(ctx context.Context, c domain.Collection) error
	Path() string
	Close() error
}

// New picks a backend from the file extension: .csv, .db/.sqlite/.sqlite3, .xlsx.
func New(path string) (Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty store path")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSV(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	case ".xlsx":
		return NewXLSX(path), nil
	default:
		return nil, fmt.Errorf("unsupported store file %q (want .csv, .db, .sqlite or .xlsx)", path)
	}
}

func recordRow(r domain.Record) []string {
	return []string{r.Company, r.Title, r.Location, r.Key, r.DetailLink, r.Summary, r.CategoryLabel}
}

// carry holds what a file table has beyond the indexed records: columns outside
// Columns and rows without a unique key. Full rewrites write it back unchanged.
type carry struct {
	extra []string            // header names outside Columns, file order
	byKey map[string][]string // extra column values of indexed rows
	loose [][]string          // unindexed rows, laid out as Columns + extra
}

// table renders c plus the carried columns and rows as header and data rows.
// Unindexed rows come first, followed by the records in collection order.
func (k carry) table(c domain.Collection) (header []string, rows [][]string) {
	header = append(append([]string{}, Columns...), k.extra...)
	width := len(header)
	rows = make([][]string, 0, len(k.loose)+c.Len())
	for _, row := range k.loose {
		rows = append(rows, padRow(row, width))
	}
	for _, r := range c.Records() {
		rows = append(rows, padRow(append(recordRow(r), k.byKey[r.Key]...), width))
	}
	return header, rows
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// rowsToCollection maps table rows to records by header name. Rows with an empty
// or repeated key, and every row of a table with no key column, are not indexed;
// they are returned in the carry so a later save keeps them.
func rowsToCollection(header []string, rows [][]string) (c domain.Collection, k carry) {
	idx := map[string]int{}
	known := map[string]bool{}
	for _, col := range Columns {
		known[col] = true
	}
	var extraIdx []int
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; dup {
			continue
		}
		idx[h] = i
		if !known[h] {
			k.extra = append(k.extra, h)
			extraIdx = append(extraIdx, i)
		}
	}
	_, hasKey := idx[KeyColumn]

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return row[i]
	}
	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok {
			return ""
		}
		return cell(row, i)
	}
	extras := func(row []string) []string {
		if len(extraIdx) == 0 {
			return nil
		}
		out := make([]string, len(extraIdx))
		for j, i := range extraIdx {
			out[j] = cell(row, i)
		}
		return out
	}

	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		r := domain.Record{
			Company:       get(row, "company_name"),
			Title:         get(row, "job_title"),
			Location:      get(row, "job_location"),
			Key:           get(row, "job_key"),
			DetailLink:    get(row, "job_link"),
			Summary:       get(row, "job_summary"),
			CategoryLabel: get(row, "salary_label"),
		}
		if hasKey && c.Add(r) {
			if ex := extras(row); ex != nil {
				if k.byKey == nil {
					k.byKey = map[string][]string{}
				}
				k.byKey[strings.TrimSpace(r.Key)] = ex
			}
			continue
		}
		k.loose = append(k.loose, append(recordRow(r), extras(row)...))
	}
	return c, k
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
