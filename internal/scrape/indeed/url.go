package indeed

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://www.indeed.com/jobs"
	DefaultViewURL = "https://www.indeed.com/viewjob"
)

// Search holds the fixed parts of a listing query: where, how far, how sorted.
type Search struct {
	BaseURL  string
	ViewURL  string
	Location string
	Radius   int
	Sort     string
}

// ListingURL builds the search page URL for term within a salary label, starting at offset.
// The label is appended to the query text, which is how indeed filters by salary.
func (s Search) ListingURL(term, label string, offset int) string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	q.Set("q", strings.TrimSpace(strings.TrimSpace(term)+" "+strings.TrimSpace(label)))
	if s.Location != "" {
		q.Set("l", s.Location)
	}
	if s.Radius > 0 {
		q.Set("radius", strconv.Itoa(s.Radius))
	}
	if s.Sort != "" {
		q.Set("sort", s.Sort)
	}
	q.Set("start", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String()
}

// DetailURL builds the full listing view URL for a job key.
func (s Search) DetailURL(key string) string {
	base := s.ViewURL
	if base == "" {
		base = DefaultViewURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + "?jk=" + url.QueryEscape(key)
	}
	q := u.Query()
	q.Set("jk", key)
	u.RawQuery = q.Encode()
	return u.String()
}
