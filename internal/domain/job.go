package domain

import "strings"

// Candidate is a listing row parsed from a search page. It has no summary yet.
type Candidate struct {
	Key      string // indeed "data-jk"
	Title    string
	Company  string
	Location string
}

// Record is one collected job listing.
type Record struct {
	Key           string
	Title         string
	Company       string
	Location      string
	Summary       string
	DetailLink    string
	CategoryLabel string // salary bracket the listing was found under
}

// Complete reports whether every field a listing row must carry is present.
func (c Candidate) Complete() bool {
	return strings.TrimSpace(c.Key) != "" &&
		strings.TrimSpace(c.Title) != "" &&
		strings.TrimSpace(c.Company) != "" &&
		strings.TrimSpace(c.Location) != ""
}

func (c Candidate) ToRecord(detailLink, summary, label string) Record {
	return Record{
		Key:           c.Key,
		Title:         c.Title,
		Company:       c.Company,
		Location:      c.Location,
		Summary:       summary,
		DetailLink:    detailLink,
		CategoryLabel: label,
	}
}

// Page is a fetched upstream document.
type Page struct {
	URL  string
	Body []byte
}
