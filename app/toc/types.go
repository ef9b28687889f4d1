package toc

// Page is one bucket of a table-of-contents axis: all documents whose
// selected value equals Linktext, addressable as (Binding, Fragment).
type Page struct {
	Binding  string // short facet name, eg. "title" or "issued"
	Fragment string // URL-safe identifier for the page
	Linktext string // the selected group value, used as link text
	Title    string // page heading
}

// Pageset is one named TOC axis and its ordered pages, built from one
// toc-enabled facet.
type Pageset struct {
	Label    string
	Identity string
	Pages    []*Page
}

// PageKey addresses one page's assignment bucket.
type PageKey struct {
	Binding  string
	Fragment string
}

// DisplayItem is the rendered form of one document on a TOC page.
type DisplayItem struct {
	Title string
	URI   string
}
