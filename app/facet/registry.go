package facet

// Defaults holds the registry entry for one well-known predicate. Zero
// string fields mean "no identity-specific default"; boolean flags are
// taken as-is since the base default for every flag is false.
type Defaults struct {
	Label     string
	PageTitle string

	Selector      FuncID
	Key           FuncID
	Identificator FuncID

	ToplevelOnly       bool
	UseForToc          bool
	UseForFeed         bool
	SelectorDescending bool
	KeyDescending      bool
	MultipleValues     bool

	DimensionType string
}

// Registry maps predicate identities to their default facet behavior.
// It is built once at startup and injected into facet construction;
// unknown identities get conservative defaults and no error.
type Registry map[string]Defaults

// DefaultRegistry returns the built-in behavior table for common
// bibliographic predicates.
func DefaultRegistry() Registry {
	return Registry{
		RDFType: {
			Selector:      FuncQName,
			Identificator: FuncURILeaf,
			DimensionType: "term",
		},
		DCTermsTitle: {
			PageTitle:     `Documents starting with "{selected}"`,
			Selector:      FuncFirstLetter,
			Key:           FuncTitleKey,
			Identificator: FuncFirstLetter,
			UseForToc:     true,
			DimensionType: "value",
		},
		DCTermsIdentifier: {
			Selector:      FuncFirstLetter,
			Key:           FuncTitleKey,
			Identificator: FuncFirstLetter,
			UseForToc:     true,
		},
		DCTermsAbstract: {
			ToplevelOnly: true,
		},
		DCCreator: {
			Selector:      FuncIdentity,
			Key:           FuncTitleKey,
			ToplevelOnly:  true,
			UseForToc:     true,
			DimensionType: "value",
		},
		DCTermsPublisher: {
			Selector:      FuncResourceLabel,
			Key:           FuncResourceLabel,
			Identificator: FuncURILeaf,
			ToplevelOnly:  true,
			UseForToc:     true,
			DimensionType: "ref",
		},
		DCTermsReferences: {},
		DCTermsIssued: {
			Label:         "Sorted by publication year",
			PageTitle:     "Documents published in {selected}",
			Selector:      FuncYear,
			Key:           FuncIdentity,
			Identificator: FuncYear,
			ToplevelOnly:  true,
			UseForToc:     true,
			UseForFeed:    true,
			DimensionType: "year",
		},
		DCSubject: {
			Selector:       FuncIdentity,
			Key:            FuncIdentity,
			ToplevelOnly:   true,
			UseForToc:      true,
			MultipleValues: true,
			DimensionType:  "value",
		},
		DCTermsSubject: {
			Selector:       FuncResourceLabel,
			Key:            FuncResourceLabel,
			Identificator:  FuncURILeaf,
			ToplevelOnly:   true,
			UseForToc:      true,
			MultipleValues: true,
			DimensionType:  "value",
		},
		SchemaFree: {
			Selector:      FuncBoolean,
			Key:           FuncIdentity,
			ToplevelOnly:  true,
			UseForToc:     true,
			DimensionType: "value",
		},
	}
}

// New constructs a fully defaulted facet for the given identity. Pure:
// no side effects, same input always yields the same facet.
func (r Registry) New(identity string) Facet {
	f := Facet{
		Identity:  identity,
		Label:     "Sorted by {term}",
		PageTitle: "Documents where {term} = {selected}",
		Selector:  FuncIdentity,
	}
	if d, ok := r[identity]; ok {
		if d.Label != "" {
			f.Label = d.Label
		}
		if d.PageTitle != "" {
			f.PageTitle = d.PageTitle
		}
		if d.Selector != "" {
			f.Selector = d.Selector
		}
		f.Key = d.Key
		f.Identificator = d.Identificator
		f.ToplevelOnly = d.ToplevelOnly
		f.UseForToc = d.UseForToc
		f.UseForFeed = d.UseForFeed
		f.SelectorDescending = d.SelectorDescending
		f.KeyDescending = d.KeyDescending
		f.MultipleValues = d.MultipleValues
		f.DimensionType = d.DimensionType
	}
	if f.Key == "" {
		f.Key = f.Selector
	}
	if f.Identificator == "" {
		f.Identificator = f.Selector
	}
	return f
}

// New constructs a facet using the built-in defaults registry.
func New(identity string) Facet {
	return DefaultRegistry().New(identity)
}
