package domain

import "strings"

// Collection is an insertion-ordered set of records keyed by Record.Key.
// It never holds two records with the same key. The zero value is an empty collection.
type Collection struct {
	records []Record
	index   map[string]int
}

// NewCollection builds a collection from recs, keeping the first record for
// any repeated key and dropping records without a key.
func NewCollection(recs ...Record) Collection {
	c := Collection{}
	for _, r := range recs {
		c.Add(r)
	}
	return c
}

func (c Collection) Has(key string) bool {
	if c.index == nil {
		return false
	}
	_, ok := c.index[strings.TrimSpace(key)]
	return ok
}

// Add appends r unless a record with the same key is already present.
func (c *Collection) Add(r Record) bool {
	key := strings.TrimSpace(r.Key)
	if key == "" || c.Has(key) {
		return false
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	r.Key = key
	c.index[key] = len(c.records)
	c.records = append(c.records, r)
	return true
}

func (c Collection) Len() int { return len(c.records) }

// Records returns a copy of the records in insertion order.
func (c Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record stored under key.
func (c Collection) Get(key string) (Record, bool) {
	if c.index == nil {
		return Record{}, false
	}
	i, ok := c.index[strings.TrimSpace(key)]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Clone returns an independent copy; adding to the clone leaves c untouched.
func (c Collection) Clone() Collection {
	out := Collection{
		records: make([]Record, len(c.records)),
		index:   make(map[string]int, len(c.index)),
	}
	copy(out.records, c.records)
	for k, v := range c.index {
		out.index[k] = v
	}
	return out
}
