package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_Add(t *testing.T) {
	var c Collection
	assert.False(t, c.Has("abc"), "zero value is empty")
	assert.Equal(t, 0, c.Len())

	assert.True(t, c.Add(Record{Key: "abc", Title: "Engineer"}))
	assert.False(t, c.Add(Record{Key: "abc", Title: "Other"}), "dup key rejected")
	assert.False(t, c.Add(Record{Key: " abc "}), "keys are trimmed before lookup")
	assert.False(t, c.Add(Record{Key: ""}), "empty key rejected")
	assert.True(t, c.Add(Record{Key: "def"}))

	require.Equal(t, 2, c.Len())
	recs := c.Records()
	assert.Equal(t, "abc", recs[0].Key)
	assert.Equal(t, "Engineer", recs[0].Title, "first record wins")
	assert.Equal(t, "def", recs[1].Key)
}

func TestNewCollection(t *testing.T) {
	c := NewCollection(
		Record{Key: "a", Title: "first"},
		Record{Key: "b"},
		Record{Key: "a", Title: "second"},
		Record{Key: "  "},
	)
	require.Equal(t, 2, c.Len())
	r, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", r.Title)
	_, ok = c.Get("zzz")
	assert.False(t, ok)
}

func TestCollection_CloneIsIndependent(t *testing.T) {
	c := NewCollection(Record{Key: "a"})
	cl := c.Clone()
	assert.True(t, cl.Add(Record{Key: "b"}))

	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Has("b"))
	assert.Equal(t, 2, cl.Len())
}

func TestCollection_RecordsIsCopy(t *testing.T) {
	c := NewCollection(Record{Key: "a", Title: "x"})
	recs := c.Records()
	recs[0].Title = "changed"
	r, _ := c.Get("a")
	assert.Equal(t, "x", r.Title)
}

func TestCandidate_Complete(t *testing.T) {
	full := Candidate{Key: "k", Title: "t", Company: "c", Location: "l"}
	assert.True(t, full.Complete())

	missing := full
	missing.Company = " "
	assert.False(t, missing.Complete())

	rec := full.ToRecord("https://example.com/viewjob?jk=k", "sum", "$55000")
	assert.Equal(t, Record{Key: "k", Title: "t", Company: "c", Location: "l", Summary: "sum",
		DetailLink: "https://example.com/viewjob?jk=k", CategoryLabel: "$55000"}, rec)
}
