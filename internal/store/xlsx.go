package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/xuri/excelize/v2"

	"jobharvest/internal/domain"
)

const (
	xlsxSheet    = "jobs"
	maxCellChars = 32767 // excel cell limit
)

// XLSX keeps the jobs table in the first sheet of an Excel workbook.
// Rows and columns it cannot index are kept from Load and written back on Save.
type XLSX struct {
	path  string
	carry carry
}

func NewXLSX(path string) *XLSX { return &XLSX{path: path} }

func (s *XLSX) Path() string { return s.path }

func (s *XLSX) Close() error { return nil }

func (s *XLSX) Load(_ context.Context) (domain.Collection, error) {
	s.carry = carry{}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		log.Printf("[INFO] [store] %s not found, starting empty", s.path)
		return domain.Collection{}, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheet := xlsxSheet
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("read %s sheet %q: %w", s.path, sheet, err)
	}
	if len(rows) == 0 {
		return domain.Collection{}, nil
	}

	c, k := rowsToCollection(rows[0], rows[1:])
	if n := len(k.loose); n > 0 {
		log.Printf("[WARN] [store] %s: %d rows without a unique %s, kept as is but not used for dedup", s.path, n, KeyColumn)
	}
	s.carry = k
	return c, nil
}

func (s *XLSX) Save(_ context.Context, c domain.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	cols, rows := s.carry.table(c)
	header := make([]any, len(cols))
	for i, h := range cols {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, vals := range rows {
		row := make([]any, len(vals))
		for j, v := range vals {
			row[j] = truncate(v, maxCellChars)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(xlsxSheet, "A", "C", 28) // company, title, location
	_ = f.SetColWidth(xlsxSheet, "E", "E", 48) // link
	_ = f.SetColWidth(xlsxSheet, "F", "F", 80) // summary

	return writeAtomic(s.path, func(out *os.File) error {
		if err := f.Write(out); err != nil {
			return fmt.Errorf("xlsx write: %w", err)
		}
		return nil
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
