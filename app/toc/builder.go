package toc

import (
	"log/slog"
	"sort"

	"github.com/staalberg/facetnav/app/facet"
)

// BuildPagesets calculates the set of TOC pages needed for the given
// rows, one pageset per toc-enabled facet. Rows a facet's selector
// cannot handle are skipped for that facet; a failing facet never
// aborts the others.
func BuildPagesets(rows []facet.Row, facets []facet.Facet, refs *facet.References) []*Pageset {
	if len(rows) == 0 {
		slog.Warn("No rows to classify, TOC will be empty; upstream row source is likely misconfigured")
	}
	res := make([]*Pageset, 0)
	for _, f := range facets {
		if !f.UseForToc {
			continue
		}
		res = append(res, buildPageset(rows, f, refs))
	}
	return res
}

func buildPageset(rows []facet.Row, f facet.Facet, refs *facet.References) *Pageset {
	binding := f.Binding()
	ps := &Pageset{
		Label:    f.PagesetLabel(),
		Identity: f.Identity,
	}

	fragments := map[string]string{}
	values := make([]string, 0)
	for _, row := range facet.EffectiveRows(rows, f, binding, refs) {
		selected, ok := f.Select(row, binding, refs)
		if !ok {
			continue
		}
		if _, seen := fragments[selected]; seen {
			continue
		}
		frag, ok := f.Identify(row, binding, refs)
		if !ok {
			continue
		}
		fragments[selected] = frag
		values = append(values, selected)
	}

	sort.Strings(values)
	if f.SelectorDescending {
		reverse(values)
	}

	seen := map[PageKey]bool{}
	for _, v := range values {
		key := PageKey{Binding: binding, Fragment: fragments[v]}
		if seen[key] {
			slog.Warn("Page identifier collision, keeping first page",
				"binding", key.Binding, "fragment", key.Fragment, "value", v)
			continue
		}
		seen[key] = true
		ps.Pages = append(ps.Pages, &Page{
			Binding:  binding,
			Fragment: fragments[v],
			Linktext: v,
			Title:    f.PageTitleFor(v),
		})
	}
	return ps
}

// Assign buckets every row into the page its selected value belongs to
// and orders each bucket by the facet's key function. The result maps
// (binding, fragment) to the ordered display items for that page.
func Assign(rows []facet.Row, pagesets []*Pageset, facets []facet.Facet, refs *facet.References) map[PageKey][]DisplayItem {
	res := make(map[PageKey][]DisplayItem)
	tocFacets := make([]facet.Facet, 0, len(facets))
	for _, f := range facets {
		if f.UseForToc {
			tocFacets = append(tocFacets, f)
		}
	}
	for i, f := range tocFacets {
		if i >= len(pagesets) {
			break
		}
		assignPageset(rows, pagesets[i], f, refs, res)
	}
	return res
}

func assignPageset(rows []facet.Row, ps *Pageset, f facet.Facet, refs *facet.References, res map[PageKey][]DisplayItem) {
	binding := f.Binding()

	pageIndex := make(map[string]*Page, len(ps.Pages))
	for _, p := range ps.Pages {
		pageIndex[p.Linktext] = p
	}

	buckets := map[string][]facet.Row{}
	order := make([]string, 0)
	for _, row := range facet.EffectiveRows(rows, f, binding, refs) {
		selected, ok := f.Select(row, binding, refs)
		if !ok {
			continue
		}
		if _, seen := buckets[selected]; !seen {
			order = append(order, selected)
		}
		buckets[selected] = append(buckets[selected], row)
	}

	for _, selected := range order {
		page, ok := pageIndex[selected]
		if !ok {
			continue
		}
		bucket := buckets[selected]
		sortRows(bucket, f, binding, refs)
		items := make([]DisplayItem, 0, len(bucket))
		for _, row := range bucket {
			items = append(items, displayItem(row))
		}
		res[PageKey{Binding: page.Binding, Fragment: page.Fragment}] = items
	}
}

// FirstPage designates the site's default landing TOC page: the first
// page of the first pageset.
func FirstPage(pagesets []*Pageset) (*Page, bool) {
	if len(pagesets) == 0 || len(pagesets[0].Pages) == 0 {
		return nil, false
	}
	return pagesets[0].Pages[0], true
}

// sortRows stable-sorts a bucket by the facet's key function; rows the
// key function cannot handle sort with an empty key. Ties keep input
// order even when the sort is descending.
func sortRows(rows []facet.Row, f facet.Facet, binding string, refs *facet.References) {
	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i], _ = f.SortKey(row, binding, refs)
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if f.KeyDescending {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})
	sorted := make([]facet.Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}

func displayItem(row facet.Row) DisplayItem {
	title := row["title"]
	if title == "" {
		title = row.URI()
	}
	return DisplayItem{Title: title, URI: row.URI()}
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
