package news

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/staalberg/facetnav/app/facet"
)

// Decorate joins the row snapshot with the entry source by document
// URI. Entries without a matching row and rows without a matching entry
// are dropped with a warning (a data-quality mismatch between the two
// upstream sources, not a fatal error). Only published entries
// participate. The result is sorted by update time, most recent first;
// each kept entry's row is extended with its published/updated
// timestamps so key functions can sort on them.
func Decorate(rows []facet.Row, entries []*Entry) []*Entry {
	if len(rows) == 0 && len(entries) > 0 {
		slog.Warn("No rows to decorate entries with; upstream row source is likely misconfigured")
	}

	byURI := make(map[string]facet.Row, len(rows))
	for _, row := range rows {
		if _, dup := byURI[row.URI()]; !dup {
			byURI[row.URI()] = row
		}
	}

	matched := map[string]bool{}
	res := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.Published.IsZero() {
			continue
		}
		row, ok := byURI[e.URI]
		if !ok {
			slog.Warn("Entry does not occur in the row snapshot, mismatch between entry store and attribute store",
				"uri", e.URI)
			continue
		}
		matched[e.URI] = true

		decorated := make(facet.Row, len(row)+2)
		for k, v := range row {
			decorated[k] = v
		}
		decorated["published"] = e.Published.UTC().Format(time.RFC3339)
		decorated["updated"] = e.Updated.UTC().Format(time.RFC3339)
		e.Row = decorated
		res = append(res, e)
	}

	for _, row := range rows {
		if !matched[row.URI()] {
			slog.Warn("Row has no published entry, skipping for feeds", "uri", row.URI())
		}
	}

	sort.SliceStable(res, func(a, b int) bool {
		return res[a].Updated.After(res[b].Updated)
	})
	return res
}

// BuildFeedsets calculates the needed feeds, one feedset per
// feed-enabled facet, plus the unconditional "All" feedset holding a
// single feed with every published entry.
func BuildFeedsets(rows []facet.Row, facets []facet.Facet, refs *facet.References) []*Feedset {
	res := make([]*Feedset, 0)
	for _, f := range facets {
		if !f.UseForFeed {
			continue
		}
		res = append(res, buildFeedset(rows, f, refs))
	}

	res = append(res, &Feedset{
		Label:    "All",
		Identity: facet.RDFSResource,
		Feeds: []*Feed{{
			Slug:  "main",
			Title: "All documents",
		}},
	})
	return res
}

func buildFeedset(rows []facet.Row, f facet.Facet, refs *facet.References) *Feedset {
	binding := f.Binding()
	term := f.Term()
	fs := &Feedset{
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

	seen := map[string]bool{}
	for _, v := range values {
		frag := fragments[v]
		if seen[frag] {
			slog.Warn("Feed identifier collision, keeping first feed",
				"binding", binding, "fragment", frag, "value", v)
			continue
		}
		seen[frag] = true
		fs.Feeds = append(fs.Feeds, &Feed{
			Slug:    term + "/" + strings.ToLower(frag),
			Title:   f.PageTitleFor(v),
			Binding: binding,
			Value:   frag,
		})
	}
	return fs
}

// CatchallFacet returns the fixed built-in facet behind the "All"
// feedset: applicable to every entry, a single bucket, ordered by
// update time with the most recent entry first.
func CatchallFacet() facet.Facet {
	return facet.Facet{
		Identity:       facet.RDFSResource,
		Label:          "All",
		PageTitle:      "All documents",
		Selector:       facet.FuncConstant,
		Key:            facet.FuncIdentity,
		Identificator:  facet.FuncConstant,
		UseForFeed:     true,
		KeyDescending:  true,
		DimensionLabel: "updated",
	}
}

// Assign buckets decorated entries into the feeds of each feedset,
// using the identificator as bucket key (feed slugs must be URL-safe
// from the start) and the key function for intra-feed order. When fewer
// feed-enabled facets exist than feedsets (always, because of the
// appended "All" feedset), the catch-all facet stands in for the
// missing one. Feeds are populated in place and the feedsets returned.
func Assign(entries []*Entry, feedsets []*Feedset, facets []facet.Facet, refs *facet.References) []*Feedset {
	feedFacets := make([]facet.Facet, 0, len(facets)+1)
	for _, f := range facets {
		if f.UseForFeed {
			feedFacets = append(feedFacets, f)
		}
	}
	if len(feedFacets) < len(feedsets) {
		feedFacets = append(feedFacets, CatchallFacet())
	}

	for i, fs := range feedsets {
		if i >= len(feedFacets) {
			break
		}
		assignFeedset(entries, fs, feedFacets[i], refs)
	}
	return feedsets
}

func assignFeedset(entries []*Entry, fs *Feedset, f facet.Facet, refs *facet.References) {
	binding := f.Binding()

	feedIndex := make(map[string]*Feed, len(fs.Feeds))
	for _, feed := range fs.Feeds {
		feedIndex[feed.Value] = feed
	}

	buckets := map[string][]*Entry{}
	order := make([]string, 0)
	for _, e := range entries {
		key, ok := f.Identify(e.Row, binding, refs)
		if !ok {
			continue
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	for _, key := range order {
		feed, ok := feedIndex[key]
		if !ok {
			continue
		}
		bucket := buckets[key]
		sortEntries(bucket, f, binding, refs)
		feed.Entries = bucket
	}
}

func sortEntries(entries []*Entry, f facet.Facet, binding string, refs *facet.References) {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i], _ = f.SortKey(e.Row, binding, refs)
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if f.KeyDescending {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})
	sorted := make([]*Entry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	copy(entries, sorted)
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
