package news

import (
	"fmt"
	"testing"
	"time"

	"github.com/staalberg/facetnav/app/facet"
)

func day(n int) time.Time {
	return time.Date(2014, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func sampleData() ([]facet.Row, []*Entry) {
	rows := []facet.Row{
		{"uri": "http://ex.org/1", "title": "Abc", "issued": "2009-04-02"},
		{"uri": "http://ex.org/2", "title": "Abcd", "issued": "2010-06-30"},
		{"uri": "http://ex.org/3", "title": "Dfg", "issued": "2010-08-01"},
	}
	entries := []*Entry{
		{URI: "http://ex.org/1", Title: "Abc", Published: day(0), Updated: day(1)},
		{URI: "http://ex.org/2", Title: "Abcd", Published: day(2), Updated: day(5)},
		{URI: "http://ex.org/3", Title: "Dfg", Published: day(3), Updated: day(3)},
	}
	return rows, entries
}

func TestDecorate(t *testing.T) {
	rows, entries := sampleData()
	decorated := Decorate(rows, entries)

	if len(decorated) != 3 {
		t.Fatalf("Expected 3 decorated entries, got: %d", len(decorated))
	}
	// most recently updated first
	if decorated[0].URI != "http://ex.org/2" || decorated[2].URI != "http://ex.org/1" {
		t.Errorf("Expected updated-descending order, got: %s ... %s",
			decorated[0].URI, decorated[2].URI)
	}
	// rows are carried over and extended with timestamps
	if decorated[0].Row["issued"] != "2010-06-30" {
		t.Errorf("Expected row attributes on decorated entry, got: %v", decorated[0].Row)
	}
	if decorated[0].Row["updated"] == "" {
		t.Error("Expected updated timestamp to be merged into the row")
	}
}

func TestDecorateDropsMismatches(t *testing.T) {
	rows, entries := sampleData()

	// entry with no row
	entries = append(entries, &Entry{URI: "http://ex.org/orphan", Published: day(1), Updated: day(1)})
	// row with no entry
	rows = append(rows, facet.Row{"uri": "http://ex.org/unentered", "title": "X"})

	decorated := Decorate(rows, entries)
	if len(decorated) != 3 {
		t.Errorf("Expected mismatched documents to be dropped, got: %d entries", len(decorated))
	}
}

func TestDecorateExcludesUnpublished(t *testing.T) {
	rows, entries := sampleData()
	entries[1].Published = time.Time{}

	decorated := Decorate(rows, entries)
	if len(decorated) != 2 {
		t.Fatalf("Expected unpublished entry to be excluded, got: %d", len(decorated))
	}
	for _, e := range decorated {
		if e.URI == "http://ex.org/2" {
			t.Error("Unpublished entry leaked into feed data")
		}
	}
}

func TestBuildFeedsetsCount(t *testing.T) {
	rows, _ := sampleData()
	facets := []facet.Facet{
		facet.New(facet.DCTermsTitle),  // toc only
		facet.New(facet.DCTermsIssued), // feed-enabled
	}

	feedsets := BuildFeedsets(rows, facets, nil)

	// one per feed-enabled facet plus the synthetic "All" feedset
	if len(feedsets) != 2 {
		t.Fatalf("Expected N+1 = 2 feedsets, got: %d", len(feedsets))
	}

	byYear := feedsets[0]
	if byYear.Label != "Sorted by publication year" {
		t.Errorf("Unexpected label: %s", byYear.Label)
	}
	if len(byYear.Feeds) != 2 {
		t.Fatalf("Expected feeds for 2009 and 2010, got: %d", len(byYear.Feeds))
	}
	if byYear.Feeds[0].Slug != "issued/2009" {
		t.Errorf("Expected slug 'issued/2009', got: %s", byYear.Feeds[0].Slug)
	}
	if byYear.Feeds[0].Title != "Documents published in 2009" {
		t.Errorf("Unexpected feed title: %s", byYear.Feeds[0].Title)
	}

	all := feedsets[1]
	if all.Label != "All" {
		t.Errorf("Expected trailing 'All' feedset, got: %s", all.Label)
	}
	if len(all.Feeds) != 1 || all.Feeds[0].Slug != "main" {
		t.Errorf("Expected a single 'main' feed, got: %+v", all.Feeds)
	}
}

func TestAssignFeeds(t *testing.T) {
	rows, entries := sampleData()
	facets := []facet.Facet{facet.New(facet.DCTermsIssued)}

	decorated := Decorate(rows, entries)
	decoratedRows := make([]facet.Row, len(decorated))
	for i, e := range decorated {
		decoratedRows[i] = e.Row
	}

	feedsets := BuildFeedsets(decoratedRows, facets, nil)
	Assign(decorated, feedsets, facets, nil)

	byYear := feedsets[0]
	var feed2010 *Feed
	for _, f := range byYear.Feeds {
		if f.Value == "2010" {
			feed2010 = f
		}
	}
	if feed2010 == nil {
		t.Fatal("Expected a 2010 feed")
	}
	if len(feed2010.Entries) != 2 {
		t.Fatalf("Expected 2 entries in the 2010 feed, got: %d", len(feed2010.Entries))
	}
	// issued facet keys on the full issued date, ascending
	if feed2010.Entries[0].URI != "http://ex.org/2" {
		t.Errorf("Expected issued-date order, got first: %s", feed2010.Entries[0].URI)
	}

	main := feedsets[1].Feeds[0]
	if len(main.Entries) != 3 {
		t.Fatalf("Expected every published entry in the main feed, got: %d", len(main.Entries))
	}
	// catch-all sorts by update time, most recent first
	if main.Entries[0].URI != "http://ex.org/2" || main.Entries[2].URI != "http://ex.org/1" {
		t.Errorf("Expected updated-descending main feed, got: %s ... %s",
			main.Entries[0].URI, main.Entries[2].URI)
	}
}

func TestAssignWithNoFeedFacets(t *testing.T) {
	// no feed-enabled facets at all: the catch-all substitution still
	// fills the main feed, never a fatal condition
	rows, entries := sampleData()
	facets := []facet.Facet{facet.New(facet.DCTermsTitle)}

	decorated := Decorate(rows, entries)
	feedsets := BuildFeedsets(rows, facets, nil)
	if len(feedsets) != 1 {
		t.Fatalf("Expected only the All feedset, got: %d", len(feedsets))
	}

	Assign(decorated, feedsets, facets, nil)
	if len(feedsets[0].Feeds[0].Entries) != 3 {
		t.Errorf("Expected 3 entries in main feed, got: %d", len(feedsets[0].Feeds[0].Entries))
	}
}

func TestCatchallFacet(t *testing.T) {
	f := CatchallFacet()
	if f.Binding() != "updated" {
		t.Errorf("Expected catch-all to key on 'updated', got: %s", f.Binding())
	}
	if !f.KeyDescending {
		t.Error("Expected catch-all to sort most recent first")
	}
	if v, ok := f.Select(facet.Row{"uri": "x"}, "updated", nil); !ok || v != "" {
		t.Errorf("Expected catch-all selector to accept every row with a constant value, got (%q, %v)", v, ok)
	}
}

func TestAssignStability(t *testing.T) {
	rows, entries := sampleData()
	facets := []facet.Facet{facet.New(facet.DCTermsIssued)}

	run := func() string {
		decorated := Decorate(rows, copyEntries(entries))
		feedsets := BuildFeedsets(rows, facets, nil)
		Assign(decorated, feedsets, facets, nil)
		out := ""
		for _, fs := range feedsets {
			for _, f := range fs.Feeds {
				out += f.Slug + ":"
				for _, e := range f.Entries {
					out += e.URI + ","
				}
				out += ";"
			}
		}
		return out
	}

	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got != first {
			t.Fatalf("Expected deterministic feed assignment, run %d differed:\n%s\n%s", i, first, got)
		}
	}
}

func copyEntries(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		c := *e
		out[i] = &c
	}
	return out
}

func TestBuildFeedsetsFragmentCollision(t *testing.T) {
	// distinct selector values mapping to the same identificator
	// fragment must not produce two feeds with the same slug
	f := facet.New(facet.DCTermsTitle)
	f.Selector = facet.FuncIdentity
	f.Identificator = facet.FuncFirstLetter
	f.UseForFeed = true

	rows := []facet.Row{
		{"uri": "http://ex.org/1", "title": "Abc"},
		{"uri": "http://ex.org/2", "title": "Axe"},
	}

	feedsets := BuildFeedsets(rows, []facet.Facet{f}, nil)
	feeds := feedsets[0].Feeds
	if len(feeds) != 1 {
		t.Fatalf("Expected colliding fragments collapsed into one feed, got: %d", len(feeds))
	}
	if feeds[0].Slug != "title/a" {
		t.Errorf("Unexpected slug: %s", feeds[0].Slug)
	}

	// both entries still land in the surviving feed
	entries := []*Entry{
		{URI: "http://ex.org/1", Published: day(0), Updated: day(0)},
		{URI: "http://ex.org/2", Published: day(1), Updated: day(1)},
	}
	decorated := Decorate(rows, entries)
	Assign(decorated, feedsets, []facet.Facet{f}, nil)
	if len(feeds[0].Entries) != 2 {
		t.Errorf("Expected both entries assigned to the surviving feed, got: %d", len(feeds[0].Entries))
	}
}

func TestBuildFeedsetsManyYears(t *testing.T) {
	var rows []facet.Row
	for y := 2001; y <= 2010; y++ {
		rows = append(rows, facet.Row{
			"uri":    fmt.Sprintf("http://ex.org/%d", y),
			"issued": fmt.Sprintf("%d-01-01", y),
		})
	}
	feedsets := BuildFeedsets(rows, []facet.Facet{facet.New(facet.DCTermsIssued)}, nil)
	feeds := feedsets[0].Feeds
	if len(feeds) != 10 {
		t.Fatalf("Expected 10 year feeds, got: %d", len(feeds))
	}
	for i := 1; i < len(feeds); i++ {
		if feeds[i-1].Value >= feeds[i].Value {
			t.Errorf("Expected ascending year order, got %s before %s", feeds[i-1].Value, feeds[i].Value)
		}
	}
}
