package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"jobharvest/internal/domain"
)

// SQLite keeps the jobs table in a sqlite database. Row order is kept in the seq column.
type SQLite struct {
	path string
	db   *sqlx.DB
}

type jobRow struct {
	Seq      int64  `db:"seq"`
	Key      string `db:"job_key"`
	Company  string `db:"company_name"`
	Title    string `db:"job_title"`
	Location string `db:"job_location"`
	Link     string `db:"job_link"`
	Summary  string `db:"job_summary"`
	Label    string `db:"salary_label"`
}

func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir for %s: %w", path, err)
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLite{path: path, db: db}, nil
}

func migrate(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.Get(&v, `PRAGMA user_version;`); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  job_key TEXT PRIMARY KEY,
  seq INTEGER NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  job_location TEXT NOT NULL DEFAULT '',
  job_link TEXT NOT NULL DEFAULT '',
  job_summary TEXT NOT NULL DEFAULT '',
  salary_label TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_jobs_seq ON jobs(seq);`); err != nil {
		return err
	}
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) (domain.Collection, error) {
	var rows []jobRow
	err := s.db.SelectContext(ctx, &rows, `
SELECT seq, job_key, company_name, job_title, job_location, job_link, job_summary, salary_label
FROM jobs
ORDER BY seq ASC;`)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("select jobs: %w", err)
	}

	var c domain.Collection
	for _, r := range rows {
		c.Add(domain.Record{
			Key:           r.Key,
			Company:       r.Company,
			Title:         r.Title,
			Location:      r.Location,
			DetailLink:    r.Link,
			Summary:       r.Summary,
			CategoryLabel: r.Label,
		})
	}
	return c, nil
}

// Save replaces the table contents with c in one transaction.
func (s *SQLite) Save(ctx context.Context, c domain.Collection) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return fmt.Errorf("clear jobs: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
INSERT INTO jobs(seq, job_key, company_name, job_title, job_location, job_link, job_summary, salary_label)
VALUES(:seq, :job_key, :company_name, :job_title, :job_location, :job_link, :job_summary, :salary_label);`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range c.Records() {
		row := jobRow{
			Seq:      int64(i),
			Key:      r.Key,
			Company:  r.Company,
			Title:    r.Title,
			Location: r.Location,
			Link:     r.DetailLink,
			Summary:  r.Summary,
			Label:    r.CategoryLabel,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("insert %s: %w", r.Key, err)
		}
	}
	return tx.Commit()
}
