package facet

import (
	"log/slog"
)

// EffectiveRows applies a facet's multi-value policy to a row snapshot.
// For single-valued facets a document contributes only its first
// applicable value, by input order; later rows for the same document
// are dropped, with a warning when they would have selected a different
// value. For multi-valued facets only exact (document, value)
// duplicates are dropped. Input order of kept rows is preserved, so the
// outcome is deterministic.
func EffectiveRows(rows []Row, f Facet, binding string, refs *References) []Row {
	kept := make([]Row, 0, len(rows))
	seen := map[string]string{} // uri -> first selected value
	for _, row := range rows {
		selected, ok := f.Select(row, binding, refs)
		if !ok {
			// not applicable rows carry no value and cannot conflict
			kept = append(kept, row)
			continue
		}
		uri := row.URI()
		key := uri
		if f.MultipleValues {
			key = uri + "\x00" + selected
		}
		if first, dup := seen[key]; dup {
			if first != selected {
				slog.Warn("Document has multiple values for single-valued facet, using first value",
					"uri", uri, "binding", binding, "kept", first, "dropped", selected)
			}
			continue
		}
		seen[key] = selected
		kept = append(kept, row)
	}
	return kept
}
