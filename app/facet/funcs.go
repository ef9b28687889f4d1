package facet

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FuncID names a registered selector/key/identificator strategy.
type FuncID string

const (
	FuncIdentity      FuncID = "identity"
	FuncYear          FuncID = "year"
	FuncBoolean       FuncID = "boolean"
	FuncTitleKey      FuncID = "title-key"
	FuncFirstLetter   FuncID = "first-letter"
	FuncResourceLabel FuncID = "resource-label"
	FuncResourceKey   FuncID = "resource-key"
	FuncURILeaf       FuncID = "uri-leaf"
	FuncQName         FuncID = "qname"
	FuncConstant      FuncID = "constant"
)

// Func projects a row onto a value. The second return value is false
// when the row lacks the data the function needs ("not applicable"):
// the caller skips that row for that facet instead of aborting.
type Func func(row Row, binding string, refs *References) (string, bool)

var (
	funcMu   sync.RWMutex
	funcRegs = map[FuncID]Func{
		FuncIdentity:      Identity,
		FuncYear:          Year,
		FuncBoolean:       Boolean,
		FuncTitleKey:      TitleKey,
		FuncFirstLetter:   FirstLetter,
		FuncResourceLabel: ResourceLabel,
		FuncResourceKey:   ResourceKey,
		FuncURILeaf:       LeafOfURI,
		FuncQName:         QName,
		FuncConstant:      Constant,
	}
)

// RegisterFunc adds a caller-supplied strategy under the given id.
// Built-in ids cannot be replaced.
func RegisterFunc(id FuncID, fn Func) error {
	funcMu.Lock()
	defer funcMu.Unlock()
	if _, exists := funcRegs[id]; exists {
		return fmt.Errorf("function %q is already registered", id)
	}
	funcRegs[id] = fn
	return nil
}

// LookupFunc resolves a strategy id.
func LookupFunc(id FuncID) (Func, bool) {
	funcMu.RLock()
	defer funcMu.RUnlock()
	fn, ok := funcRegs[id]
	return fn, ok
}

// Identity returns row[binding] verbatim.
func Identity(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// yearLayouts maps the accepted raw string lengths to their layouts.
// Any other length is not applicable.
var yearLayouts = map[int]string{
	19: "2006-01-02T15:04:05",
	10: "2006-01-02",
	7:  "2006-01",
}

// Year returns the four-digit year of a date-like value.
func Year(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok {
		return "", false
	}
	layout, ok := yearLayouts[len(v)]
	if !ok {
		return "", false
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%04d", t.Year()), true
}

// Boolean returns "true" iff row[binding] is the literal string "true",
// "false" for every other present value.
func Boolean(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok {
		return "", false
	}
	if v == "true" {
		return "true", true
	}
	return "false", true
}

// TitleKey returns a version of row[binding] suitable for sorting:
// lowercased, diacritics folded, everything but letters and digits
// stripped.
func TitleKey(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok {
		return "", false
	}
	key := sortableKey(v)
	if key == "" {
		return "", false
	}
	return key, true
}

// FirstLetter returns the first character of the sortable title key.
func FirstLetter(row Row, binding string, refs *References) (string, bool) {
	key, ok := TitleKey(row, binding, refs)
	if !ok {
		return "", false
	}
	return key[:1], true
}

// ResourceLabel looks up a human-readable label for the resource URI in
// row[binding], falling back to the raw value when no label is known.
func ResourceLabel(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok || v == "" {
		return "", false
	}
	if refs != nil {
		if label, found := refs.Label(v); found {
			return label, true
		}
	}
	return v, true
}

// ResourceKey returns a sortable version of the resource label.
func ResourceKey(row Row, binding string, refs *References) (string, bool) {
	label, ok := ResourceLabel(row, binding, refs)
	if !ok {
		return "", false
	}
	key := sortableKey(label)
	if key == "" {
		return "", false
	}
	return key, true
}

// LeafOfURI returns the final path segment of the resource URI in
// row[binding].
func LeafOfURI(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok || v == "" {
		return "", false
	}
	leaf := URILeaf(v)
	if leaf == "" {
		return "", false
	}
	return leaf, true
}

// QName returns a namespace-prefixed short form of the resource URI in
// row[binding], using the prefix table of the reference dataset.
func QName(row Row, binding string, refs *References) (string, bool) {
	v, ok := row[binding]
	if !ok || v == "" || refs == nil {
		return "", false
	}
	return refs.QName(v)
}

// Constant is applicable to every row and always selects the empty
// group value. It backs the catch-all facet behind the "All" feedset.
func Constant(row Row, binding string, refs *References) (string, bool) {
	return "", true
}

// URILeaf returns the last segment of a URI, where segments are
// delimited by '#', '/' or ':'.
func URILeaf(uri string) string {
	if i := strings.LastIndexAny(uri, "#/:"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// foldAccents decomposes characters and drops combining marks, so that
// "é" sorts as "e".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func sortableKey(s string) string {
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
