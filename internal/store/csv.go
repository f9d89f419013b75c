package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/go-pkgz/lgr"

	"jobharvest/internal/domain"
)

// CSV keeps the jobs table in a comma separated file with a header row.
// Rows and columns it cannot index are kept from Load and written back on Save.
type CSV struct {
	path  string
	carry carry
}

func NewCSV(path string) *CSV { return &CSV{path: path} }

func (s *CSV) Path() string { return s.path }

func (s *CSV) Close() error { return nil }

func (s *CSV) Load(_ context.Context) (domain.Collection, error) {
	s.carry = carry{}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[INFO] [store] %s not found, starting empty", s.path)
		return domain.Collection{}, nil
	}
	if err != nil {
		return domain.Collection{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return domain.Collection{}, nil
	}
	if err != nil {
		return domain.Collection{}, fmt.Errorf("read %s header: %w", s.path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return domain.Collection{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	c, k := rowsToCollection(header, rows)
	if n := len(k.loose); n > 0 {
		log.Printf("[WARN] [store] %s: %d rows without a unique %s, kept as is but not used for dedup", s.path, n, KeyColumn)
	}
	s.carry = k
	return c, nil
}

func (s *CSV) Save(_ context.Context, c domain.Collection) error {
	return writeAtomic(s.path, func(f *os.File) error {
		header, rows := s.carry.table(c)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for i, row := range rows {
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
		w.Flush()
		return w.Error()
	})
}
