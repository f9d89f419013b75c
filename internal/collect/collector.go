package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"

	"jobharvest/internal/domain"
)

const (
	// Pages is how deep indeed lets a search go: 100 pages of 10 results.
	Pages    = 100
	PageSize = 10
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.Page, error)
}

// Extractor turns fetched pages into listing candidates and summaries.
type Extractor interface {
	// Listing returns complete rows in page order plus the number of rows it had to drop.
	Listing(page domain.Page) (cands []domain.Candidate, misses int)
	Summary(page domain.Page) (string, bool)
}

type URLBuilder interface {
	ListingURL(term, label string, offset int) string
	DetailURL(key string) string
}

// Stats counts what happened during one category scan.
type Stats struct {
	Pages           int // listing fetch attempts
	ListingFailures int
	Misses          int // rows dropped by the extractor
	Empty           int // pages with no usable row
	Duplicates      int // pages whose rows were all known
	DetailFailures  int // detail fetch failed or had no summary
	Added           int
}

func (s Stats) String() string {
	return fmt.Sprintf("pages=%d added=%d dup=%d empty=%d misses=%d listing_fail=%d detail_fail=%d",
		s.Pages, s.Added, s.Duplicates, s.Empty, s.Misses, s.ListingFailures, s.DetailFailures)
}

// Collector scans one salary category and appends listings it has not seen before.
type Collector struct {
	fetcher   Fetcher
	extractor Extractor
	urls      URLBuilder

	// OnRecord is called after each record is appended.
	OnRecord func(domain.Record)
}

func New(f Fetcher, e Extractor, u URLBuilder) *Collector {
	return &Collector{fetcher: f, extractor: e, urls: u}
}

// CollectCategory walks every listing page for term within label and returns in
// plus the new records, appended in scan order. The input collection is not modified.
//
// At most one record is taken per page: the first row whose key is not yet known.
// Known keys are skipped before any detail fetch. Failed fetches skip the page
// or listing and are counted in Stats. If ctx is canceled the scan stops and
// the input collection is returned with ctx.Err().
func (c *Collector) CollectCategory(ctx context.Context, term, label string, in domain.Collection) (domain.Collection, Stats, error) {
	var st Stats
	term = strings.TrimSpace(term)
	if term == "" {
		return in, st, errors.New("empty query term")
	}

	out := in.Clone()
	for page := 0; page < Pages; page++ {
		if err := ctx.Err(); err != nil {
			return in, st, err
		}
		offset := page * PageSize
		listURL := c.urls.ListingURL(term, label, offset)

		st.Pages++
		listing, err := c.fetcher.Fetch(ctx, listURL)
		if err != nil {
			if ctx.Err() != nil {
				return in, st, ctx.Err()
			}
			st.ListingFailures++
			log.Printf("[WARN] [collect] listing fetch failed label=%s start=%d err=%v", label, offset, err)
			continue
		}

		cands, misses := c.extractor.Listing(listing)
		st.Misses += misses

		cand, ok := firstUnseen(out, cands)
		if !ok {
			if len(cands) == 0 {
				st.Empty++
			} else {
				st.Duplicates++
			}
			log.Printf("[DEBUG] [collect] nothing new label=%s start=%d rows=%d", label, offset, len(cands))
			continue
		}

		rec, ok := c.detail(ctx, cand, label)
		if !ok {
			if ctx.Err() != nil {
				return in, st, ctx.Err()
			}
			st.DetailFailures++
			continue
		}

		out.Add(rec)
		st.Added++
		log.Printf("[DEBUG] [collect] added key=%s title=%q company=%q", rec.Key, rec.Title, rec.Company)
		if c.OnRecord != nil {
			c.OnRecord(rec)
		}
	}
	return out, st, nil
}

func (c *Collector) detail(ctx context.Context, cand domain.Candidate, label string) (domain.Record, bool) {
	link := c.urls.DetailURL(cand.Key)
	page, err := c.fetcher.Fetch(ctx, link)
	if err != nil {
		log.Printf("[WARN] [collect] detail fetch failed key=%s err=%v", cand.Key, err)
		return domain.Record{}, false
	}
	summary, ok := c.extractor.Summary(page)
	if !ok {
		log.Printf("[WARN] [collect] no summary key=%s url=%s", cand.Key, link)
		return domain.Record{}, false
	}
	return cand.ToRecord(link, summary, label), true
}

func firstUnseen(coll domain.Collection, cands []domain.Candidate) (domain.Candidate, bool) {
	for _, c := range cands {
		if !coll.Has(c.Key) {
			return c, true
		}
	}
	return domain.Candidate{}, false
}
