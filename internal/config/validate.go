package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a trimmed copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Search.BaseURL = strings.TrimSpace(out.Search.BaseURL)
	out.Search.ViewURL = strings.TrimSpace(out.Search.ViewURL)
	out.Search.Location = strings.TrimSpace(out.Search.Location)
	out.Search.Sort = strings.ToLower(strings.TrimSpace(out.Search.Sort))
	out.Salary.Currency = strings.TrimSpace(out.Salary.Currency)
	out.HTTP.UserAgent = strings.TrimSpace(out.HTTP.UserAgent)
	out.Store.Path = strings.TrimSpace(out.Store.Path)

	// ---- Validation rules ----

	checkURL := func(name, raw string) {
		u, err := url.Parse(raw)
		if raw == "" || err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("%s must be an absolute url, got %q", name, raw)
		}
	}
	checkURL("search.base_url", out.Search.BaseURL)
	checkURL("search.view_url", out.Search.ViewURL)

	if out.Search.Location == "" {
		res.addWarn("search.location is empty; results will not be limited to an area.")
	}
	if out.Search.Radius < 0 {
		res.addErr("search.radius must be >= 0")
	}
	switch out.Search.Sort {
	case "", "date", "relevance":
	default:
		res.addWarn("search.sort %q is not one of date, relevance", out.Search.Sort)
	}

	// salary sanity
	if out.Salary.Step <= 0 {
		res.addErr("salary.step must be > 0")
	}
	if out.Salary.Min < 0 {
		res.addErr("salary.min must be >= 0")
	}
	if out.Salary.Max < out.Salary.Min {
		res.addErr("salary.max (%d) must be >= salary.min (%d)", out.Salary.Max, out.Salary.Min)
	}
	if out.Salary.Step > 0 && out.Salary.Max >= out.Salary.Min {
		switch n := out.Salary.Brackets(); {
		case n > MaxSalaryBrackets:
			res.addErr("salary range has %d brackets, at most %d allowed", n, MaxSalaryBrackets)
		case n > 50:
			res.addWarn("salary range has %d brackets; each one scans 100 pages.", n)
		}
	}

	if out.HTTP.Timeout < 0 {
		res.addErr("http.timeout must be >= 0")
	} else if out.HTTP.Timeout > 0 && out.HTTP.Timeout < time.Second {
		res.addWarn("http.timeout is very low (%s); most fetches will fail.", out.HTTP.Timeout)
	}

	if out.Store.Path == "" {
		res.addErr("store.path is required")
	} else {
		switch strings.ToLower(filepath.Ext(out.Store.Path)) {
		case ".csv", ".db", ".sqlite", ".sqlite3", ".xlsx":
		default:
			res.addErr("store.path %q must end in .csv, .db, .sqlite, .sqlite3 or .xlsx", out.Store.Path)
		}
	}

	return out, res
}
