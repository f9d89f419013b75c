// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Search struct {
	BaseURL  string `yaml:"base_url"`
	ViewURL  string `yaml:"view_url"`
	Location string `yaml:"location"`
	Radius   int    `yaml:"radius"`
	Sort     string `yaml:"sort"`
}

// Salary describes the bracket labels a campaign walks, from Max down to Min.
type Salary struct {
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
	Step     int    `yaml:"step"`
	Currency string `yaml:"currency"`
}

type HTTP struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Store struct {
	Path string `yaml:"path"`
}

type Config struct {
	Search Search `yaml:"search"`
	Salary Salary `yaml:"salary"`
	HTTP   HTTP   `yaml:"http"`
	Store  Store  `yaml:"store"`
}

func Default() Config {
	return Config{
		Search: Search{
			BaseURL:  "https://www.indeed.com/jobs",
			ViewURL:  "https://www.indeed.com/viewjob",
			Location: "New York, NY",
			Radius:   100,
			Sort:     "date",
		},
		Salary: Salary{Min: 55000, Max: 125000, Step: 10000, Currency: "$"},
		HTTP: HTTP{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
		},
		Store: Store{Path: "jobs.csv"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// MaxSalaryBrackets caps the number of categories one campaign may walk.
const MaxSalaryBrackets = 200

// Brackets is the number of salary categories in the range, 0 when the range is invalid.
func (s Salary) Brackets() int {
	if s.Step <= 0 || s.Max < s.Min {
		return 0
	}
	// unsigned so extreme ranges cannot overflow
	n := (uint64(s.Max) - uint64(s.Min)) / uint64(s.Step)
	if n >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n) + 1
}

// Labels renders the salary brackets in descending order, e.g. "$125000" ... "$55000".
// Ranges over MaxSalaryBrackets yield nil.
func (s Salary) Labels() []string {
	n := s.Brackets()
	if n == 0 || n > MaxSalaryBrackets {
		return nil
	}
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, fmt.Sprintf("%s%d", s.Currency, s.Min+i*s.Step))
	}
	return out
}
