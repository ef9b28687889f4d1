package news

import (
	"time"

	"github.com/staalberg/facetnav/app/facet"
)

// ContentRef points at the machine-readable representation of a
// document, either inline (Markup) or by reference (Src).
type ContentRef struct {
	Src    string
	Markup string
	Type   string
	Hash   string
}

// LinkRef points at an alternate representation of a document.
type LinkRef struct {
	Href   string
	Type   string
	Length int64
	Hash   string
}

// Entry is a row enriched with bibliographic metadata from the entry
// source. Dirty marks entries whose missing fields were filled in with
// computed defaults and that should be persisted by the caller.
type Entry struct {
	URI       string
	URL       string
	Basefile  string
	Title     string
	Summary   string
	Published time.Time
	Updated   time.Time
	Content   ContentRef
	Link      LinkRef

	// Row is the document's attribute row, available to classifier
	// functions after decoration.
	Row facet.Row

	Dirty bool
}

// Feed is one syndication bucket, the news analogue of a TOC page.
type Feed struct {
	Slug    string
	Title   string
	Binding string
	Value   string
	Entries []*Entry
}

// Feedset is one named feed axis, built from one feed-enabled facet.
type Feedset struct {
	Label    string
	Identity string
	Feeds    []*Feed
}
