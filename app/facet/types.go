package facet

import (
	"strings"
)

// Row is a flat attribute record describing one document (or one
// document/value pair for multi-valued facets). Keys are binding names,
// values are scalar strings. Every row carries a "uri" key identifying
// the document it belongs to.
type Row map[string]string

// URI returns the document identifier of the row.
func (r Row) URI() string {
	return r["uri"]
}

// Facet describes one classification dimension over rows: how to group
// documents (Selector), how to order them within a group (Key) and how
// to derive a URL-safe identifier for a group (Identificator). The three
// functions are referenced by name so that Facet stays a comparable value.
type Facet struct {
	Identity string // predicate URI the facet is indexed by

	Label     string // pageset/feedset heading template, {term} placeholder
	PageTitle string // per-page/per-feed heading template, {term} and {selected} placeholders

	Selector      FuncID
	Key           FuncID
	Identificator FuncID

	ToplevelOnly       bool
	UseForToc          bool
	UseForFeed         bool
	SelectorDescending bool
	KeyDescending      bool
	MultipleValues     bool

	// Metadata consumed by the indexing collaborator; carried through here.
	DimensionType  string
	DimensionLabel string
}

// Binding returns the short name under which this facet's values appear
// in rows: the dimension label when set, else the leaf of the identity URI.
func (f Facet) Binding() string {
	if f.DimensionLabel != "" {
		return f.DimensionLabel
	}
	return URILeaf(f.Identity)
}

// Term returns the human-readable term name used in label templates.
func (f Facet) Term() string {
	if f.DimensionLabel != "" {
		return f.DimensionLabel
	}
	return URILeaf(f.Identity)
}

// Select applies the facet's selector to a row. The second return value
// is false when the selector is not applicable to the row, which is an
// expected condition for incomplete rows, not an error.
func (f Facet) Select(row Row, binding string, refs *References) (string, bool) {
	fn, ok := LookupFunc(f.Selector)
	if !ok {
		return "", false
	}
	return fn(row, binding, refs)
}

// SortKey applies the facet's key function to a row.
func (f Facet) SortKey(row Row, binding string, refs *References) (string, bool) {
	fn, ok := LookupFunc(f.Key)
	if !ok {
		return "", false
	}
	return fn(row, binding, refs)
}

// Identify applies the facet's identificator to a row.
func (f Facet) Identify(row Row, binding string, refs *References) (string, bool) {
	fn, ok := LookupFunc(f.Identificator)
	if !ok {
		return "", false
	}
	return fn(row, binding, refs)
}

// PagesetLabel expands the facet's label template.
func (f Facet) PagesetLabel() string {
	return expandTemplate(f.Label, f.Term(), "")
}

// PageTitleFor expands the facet's page title template for a selected value.
func (f Facet) PageTitleFor(selected string) string {
	return expandTemplate(f.PageTitle, f.Term(), selected)
}

// Equal reports whether two facets select the same set of data. Only
// identity, dimension type/label and the selector affect the selected
// set; label, page title and key differences do not.
func (f Facet) Equal(other Facet) bool {
	return f.Identity == other.Identity &&
		f.DimensionType == other.DimensionType &&
		f.DimensionLabel == other.DimensionLabel &&
		f.Selector == other.Selector
}

func expandTemplate(tmpl, term, selected string) string {
	return strings.NewReplacer("{term}", term, "{selected}", selected).Replace(tmpl)
}
