package indeed

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/go-pkgz/lgr"

	"jobharvest/internal/domain"
	"jobharvest/internal/scrape/util"
)

// result rows: legacy "row result" cards and current job_seen_beacon cards
var rowSelectors = []string{
	"div.row.result",
	"div[data-jk]",
	"div.job_seen_beacon",
}

var companySelectors = []string{
	"span.company",
	"span.companyName",
	"[data-testid='company-name']",
}

var locationSelectors = []string{
	"span.location",
	"div.location",
	"div.companyLocation",
	"[data-testid='text-location']",
}

var summarySelectors = []string{
	"span#job_summary",
	"#jobDescriptionText",
	"div.jobsearch-jobDescriptionText",
}

// Extractor parses indeed listing and detail pages.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Listing returns the well-formed rows of a search page in page order.
// Rows missing the key, title, company or location are dropped and counted as misses.
func (e *Extractor) Listing(page domain.Page) (cands []domain.Candidate, misses int) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		log.Printf("[WARN] [indeed] parse listing url=%s err=%v", page.URL, err)
		return nil, 0
	}

	all := strings.Join(rowSelectors, ", ")
	var rows []*goquery.Selection
	doc.Find(all).Each(func(_ int, s *goquery.Selection) {
		// nested matches (a beacon inside a data-jk div) belong to the outer row
		if s.ParentsFiltered(all).Length() > 0 {
			return
		}
		rows = append(rows, s)
	})

	for _, row := range rows {
		c, ok := parseRow(row)
		if !ok {
			misses++
			log.Printf("[DEBUG] [indeed] incomplete row url=%s key=%q", page.URL, c.Key)
			continue
		}
		cands = append(cands, c)
	}
	return cands, misses
}

// Summary returns the long-form description from a detail page.
func (e *Extractor) Summary(page domain.Page) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		log.Printf("[WARN] [indeed] parse detail url=%s err=%v", page.URL, err)
		return "", false
	}
	for _, sel := range summarySelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if t := util.CleanMultiline(blockText(node)); t != "" {
			return t, true
		}
	}
	return "", false
}

func parseRow(row *goquery.Selection) (domain.Candidate, bool) {
	c := domain.Candidate{Key: rowKey(row)}
	c.Title = rowTitle(row)
	c.Company = firstText(row, companySelectors)
	c.Location = util.NormalizeLocation(firstText(row, locationSelectors))
	return c, c.Complete()
}

func rowKey(row *goquery.Selection) string {
	if jk, ok := row.Attr("data-jk"); ok && strings.TrimSpace(jk) != "" {
		return strings.TrimSpace(jk)
	}
	if jk, ok := row.Find("[data-jk]").First().Attr("data-jk"); ok {
		return strings.TrimSpace(jk)
	}
	return ""
}

func rowTitle(row *goquery.Selection) string {
	if t, ok := row.Find("a.turnstileLink").First().Attr("title"); ok && util.CleanText(t) != "" {
		return util.CleanText(t)
	}
	for _, sel := range []string{"h2.jobTitle span[title]", "a.jcs-JobTitle span", "h2.jobTitle"} {
		node := row.Find(sel).First()
		if t, ok := node.Attr("title"); ok && util.CleanText(t) != "" {
			return util.CleanText(t)
		}
		if t := util.CleanText(node.Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstText(row *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := util.CleanText(row.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// blockText renders text with line breaks around block elements.
func blockText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) == "#text" {
			b.WriteString(n.Text())
			return
		}
		switch goquery.NodeName(n) {
		case "br":
			b.WriteString("\n")
		case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4":
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			b.WriteString(blockText(n))
			b.WriteString("\n")
		default:
			b.WriteString(blockText(n))
		}
	})
	return b.String()
}
