package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"jobharvest/internal/collect"
	"jobharvest/internal/domain"
)

type Collector interface {
	CollectCategory(ctx context.Context, term, label string, in domain.Collection) (domain.Collection, collect.Stats, error)
}

type Store interface {
	Load(ctx context.Context) (domain.Collection, error)
	Save(ctx context.Context, c domain.Collection) error
}

// Result summarizes a finished or interrupted campaign.
type Result struct {
	Loaded     int // records in the table at start
	Total      int // records after the last flushed category
	Categories []CategoryResult
}

type CategoryResult struct {
	Label string
	Stats collect.Stats
}

func (r Result) Added() int { return r.Total - r.Loaded }

// Driver runs one collector pass per salary label, saving after each.
type Driver struct {
	collector Collector
	store     Store
	labels    []string
}

func New(c Collector, s Store, labels []string) *Driver {
	return &Driver{collector: c, store: s, labels: labels}
}

// Run loads the table once, then for each label collects and saves. A failed
// or canceled category is not saved; categories saved before it are kept.
func (d *Driver) Run(ctx context.Context, term string) (Result, error) {
	var res Result
	term = strings.TrimSpace(term)
	if term == "" {
		return res, errors.New("empty job title")
	}
	if len(d.labels) == 0 {
		return res, errors.New("no salary labels to scan")
	}

	coll, err := d.store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load jobs: %w", err)
	}
	res.Loaded = coll.Len()
	res.Total = coll.Len()
	log.Printf("[INFO] [campaign] loaded %d jobs", res.Loaded)

	for _, label := range d.labels {
		log.Printf("[INFO] For %s jobs with salary %s", term, label)
		start := time.Now()

		next, st, err := d.collector.CollectCategory(ctx, term, label, coll)
		if err != nil {
			return res, fmt.Errorf("collect %s: %w", label, err)
		}
		if err := d.store.Save(ctx, next); err != nil {
			return res, fmt.Errorf("save after %s: %w", label, err)
		}
		coll = next
		res.Total = coll.Len()
		res.Categories = append(res.Categories, CategoryResult{Label: label, Stats: st})

		log.Printf("[INFO] [campaign] label=%s %s total=%d took=%s", label, st, coll.Len(), time.Since(start).Round(time.Millisecond))
		if st.ListingFailures+st.DetailFailures > 0 {
			log.Printf("[WARN] [campaign] label=%s fetch failures: listing=%d detail=%d", label, st.ListingFailures, st.DetailFailures)
		}
	}
	return res, nil
}
