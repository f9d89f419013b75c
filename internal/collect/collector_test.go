package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobharvest/internal/domain"
)

type fakeURLs struct{}

func (fakeURLs) ListingURL(term, label string, offset int) string {
	return fmt.Sprintf("list:%s|%s|%d", term, label, offset)
}
func (fakeURLs) DetailURL(key string) string { return "detail:" + key }

// stubFetcher serves every url; urls listed in fail return an error.
type stubFetcher struct {
	fail     map[string]bool
	listing  int
	detail   int
	detailBy map[string]int
	urls     []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (domain.Page, error) {
	f.urls = append(f.urls, url)
	if strings.HasPrefix(url, "detail:") {
		f.detail++
		if f.detailBy == nil {
			f.detailBy = map[string]int{}
		}
		f.detailBy[strings.TrimPrefix(url, "detail:")]++
	} else {
		f.listing++
	}
	if f.fail[url] {
		return domain.Page{}, errors.New("boom")
	}
	return domain.Page{URL: url}, nil
}

// stubExtractor returns rows keyed by listing offset and summaries keyed by job key.
type stubExtractor struct {
	rows      map[int][]domain.Candidate
	misses    map[int]int
	summaries map[string]string
}

func (e stubExtractor) Listing(page domain.Page) ([]domain.Candidate, int) {
	parts := strings.Split(page.URL, "|")
	var offset int
	_, _ = fmt.Sscanf(parts[len(parts)-1], "%d", &offset)
	return e.rows[offset], e.misses[offset]
}

func (e stubExtractor) Summary(page domain.Page) (string, bool) {
	s, ok := e.summaries[strings.TrimPrefix(page.URL, "detail:")]
	return s, ok
}

var acme = domain.Candidate{Key: "abc123", Title: "Engineer", Company: "Acme", Location: "New York, NY"}

func scenario() stubExtractor {
	return stubExtractor{
		rows:      map[int][]domain.Candidate{0: {acme}},
		summaries: map[string]string{"abc123": "Build things."},
	}
}

func TestCollectCategory_EndToEnd(t *testing.T) {
	f := &stubFetcher{}
	c := New(f, scenario(), fakeURLs{})

	out, st, err := c.CollectCategory(context.Background(), "engineer", "$125000", domain.Collection{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	rec := out.Records()[0]
	assert.Equal(t, domain.Record{Key: "abc123", Title: "Engineer", Company: "Acme", Location: "New York, NY",
		Summary: "Build things.", DetailLink: "detail:abc123", CategoryLabel: "$125000"}, rec)

	assert.Equal(t, 1, st.Added)
	assert.Equal(t, 100, st.Pages)
	assert.Equal(t, 99, st.Empty)
	assert.Equal(t, 1, f.detail)
}

func TestCollectCategory_ExistingKey(t *testing.T) {
	f := &stubFetcher{}
	c := New(f, scenario(), fakeURLs{})

	in := domain.NewCollection(domain.Record{Key: "abc123", Title: "Old", CategoryLabel: "$95000"})
	out, st, err := c.CollectCategory(context.Background(), "engineer", "$125000", in)
	require.NoError(t, err)

	assert.Equal(t, in.Records(), out.Records(), "collection unchanged")
	assert.Equal(t, 0, f.detail, "no detail fetch for known key")
	assert.Equal(t, 1, st.Duplicates)
	assert.Equal(t, 0, st.Added)
}

func TestCollectCategory_BoundedScan(t *testing.T) {
	tests := []struct {
		name string
		ext  stubExtractor
	}{
		{"no rows", stubExtractor{}},
		{"row on every page", func() stubExtractor {
			e := stubExtractor{rows: map[int][]domain.Candidate{}, summaries: map[string]string{}}
			for i := 0; i < Pages; i++ {
				key := fmt.Sprintf("k%d", i)
				e.rows[i*PageSize] = []domain.Candidate{{Key: key, Title: "t", Company: "c", Location: "l"}}
				e.summaries[key] = "s"
			}
			return e
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{}
			_, st, err := New(f, tt.ext, fakeURLs{}).CollectCategory(context.Background(), "go", "$55000", domain.Collection{})
			require.NoError(t, err)
			assert.Equal(t, Pages, f.listing)
			assert.Equal(t, Pages, st.Pages)

			var offsets []string
			for _, u := range f.urls {
				if strings.HasPrefix(u, "list:") {
					offsets = append(offsets, u[strings.LastIndex(u, "|")+1:])
				}
			}
			assert.Equal(t, "0", offsets[0])
			assert.Equal(t, "10", offsets[1])
			assert.Equal(t, "990", offsets[len(offsets)-1])
		})
	}
}

func TestCollectCategory_Idempotent(t *testing.T) {
	ext := stubExtractor{
		rows: map[int][]domain.Candidate{
			0:  {acme},
			10: {{Key: "def456", Title: "Dev", Company: "Globex", Location: "Remote"}},
			20: {acme, {Key: "ghi789", Title: "SRE", Company: "Initech", Location: "NYC"}},
		},
		summaries: map[string]string{"abc123": "a", "def456": "d", "ghi789": "g"},
	}
	c := New(&stubFetcher{}, ext, fakeURLs{})

	once, _, err := c.CollectCategory(context.Background(), "engineer", "$75000", domain.Collection{})
	require.NoError(t, err)
	require.Equal(t, 3, once.Len())
	assert.Equal(t, []string{"abc123", "def456", "ghi789"}, keys(once))

	f := &stubFetcher{}
	twice, st, err := New(f, ext, fakeURLs{}).CollectCategory(context.Background(), "engineer", "$75000", once)
	require.NoError(t, err)
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, 0, st.Added)
	assert.Equal(t, 0, f.detail)
}

func TestCollectCategory_UniqueKeysAndLabel(t *testing.T) {
	// the same key shows up on several pages and twice on one page
	ext := stubExtractor{
		rows: map[int][]domain.Candidate{
			0:  {acme, acme},
			10: {acme},
			30: {{Key: "x1", Title: "t", Company: "c", Location: "l"}, acme},
			40: {acme, {Key: "x1", Title: "t", Company: "c", Location: "l"}, {Key: "x2", Title: "t", Company: "c", Location: "l"}},
		},
		summaries: map[string]string{"abc123": "a", "x1": "1", "x2": "2"},
	}
	f := &stubFetcher{}
	out, st, err := New(f, ext, fakeURLs{}).CollectCategory(context.Background(), "engineer", "$105000", domain.Collection{})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123", "x1", "x2"}, keys(out))
	assert.Equal(t, 1, st.Duplicates)
	for _, r := range out.Records() {
		assert.Equal(t, "$105000", r.CategoryLabel)
	}
	for key, n := range f.detailBy {
		assert.Equal(t, 1, n, "one detail fetch per key %s", key)
	}
}

func TestCollectCategory_Failures(t *testing.T) {
	ext := stubExtractor{
		rows: map[int][]domain.Candidate{
			0:  {acme},
			10: {{Key: "nosum", Title: "t", Company: "c", Location: "l"}},
			20: {{Key: "down", Title: "t", Company: "c", Location: "l"}},
			30: {{Key: "ok", Title: "t", Company: "c", Location: "l"}},
		},
		misses:    map[int]int{30: 2},
		summaries: map[string]string{"abc123": "a", "down": "d", "ok": "o"},
	}
	f := &stubFetcher{fail: map[string]bool{
		"list:engineer|$55000|0": true,
		"detail:down":            true,
	}}
	out, st, err := New(f, ext, fakeURLs{}).CollectCategory(context.Background(), "engineer", "$55000", domain.Collection{})
	require.NoError(t, err, "fetch failures never abort the scan")

	assert.Equal(t, []string{"ok"}, keys(out))
	assert.Equal(t, 1, st.ListingFailures)
	assert.Equal(t, 2, st.DetailFailures, "missing summary and failed fetch")
	assert.Equal(t, 2, st.Misses)
	assert.Equal(t, Pages, st.Pages)
}

func TestCollectCategory_OnRecord(t *testing.T) {
	c := New(&stubFetcher{}, scenario(), fakeURLs{})
	var got []string
	c.OnRecord = func(r domain.Record) { got = append(got, r.Key) }
	_, _, err := c.CollectCategory(context.Background(), "engineer", "$55000", domain.Collection{})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123"}, got)
}

func TestCollectCategory_Errors(t *testing.T) {
	c := New(&stubFetcher{}, scenario(), fakeURLs{})

	_, _, err := c.CollectCategory(context.Background(), "  ", "$55000", domain.Collection{})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := domain.NewCollection(domain.Record{Key: "old"})
	out, st, err := c.CollectCategory(ctx, "engineer", "$55000", in)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, in.Records(), out.Records())
	assert.Equal(t, 0, st.Pages)
}

func TestCollectCategory_DoesNotMutateInput(t *testing.T) {
	in := domain.NewCollection(domain.Record{Key: "old"})
	out, _, err := New(&stubFetcher{}, scenario(), fakeURLs{}).CollectCategory(context.Background(), "engineer", "$55000", in)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Len())
	assert.Equal(t, []string{"old", "abc123"}, keys(out))
}

func keys(c domain.Collection) []string {
	var out []string
	for _, r := range c.Records() {
		out = append(out, r.Key)
	}
	return out
}
