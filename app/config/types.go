package config

import (
	"github.com/staalberg/facetnav/app/facet"
)

// Config describes one document repository: where its documents live,
// which facets it is classified along and the vocabulary data the
// classifiers need.
type Config struct {
	Alias string `yaml:"-"` // derived from the configuration filename
	Title string `yaml:"title"`
	URL   string `yaml:"url"` // base URL the repository's documents are published under

	Facets    []FacetConfig                `yaml:"facets"`
	Prefixes  map[string]string            `yaml:"prefixes"`
	Resources map[string]map[string]string `yaml:"resources"`

	Settings Settings `yaml:"settings"`
}

// FacetConfig is the YAML shape of one facet definition. Only identity
// is required; everything else overrides the registry defaults for that
// identity. Strategy fields name registered classifier functions.
type FacetConfig struct {
	Identity  string `yaml:"identity"`
	Label     string `yaml:"label"`
	PageTitle string `yaml:"pagetitle"`

	Selector      string `yaml:"selector"`
	Key           string `yaml:"key"`
	Identificator string `yaml:"identificator"`

	ToplevelOnly       *bool `yaml:"toplevel_only"`
	UseForToc          *bool `yaml:"use_for_toc"`
	UseForFeed         *bool `yaml:"use_for_feed"`
	SelectorDescending *bool `yaml:"selector_descending"`
	KeyDescending      *bool `yaml:"key_descending"`
	MultipleValues     *bool `yaml:"multiple_values"`

	DimensionType  string `yaml:"dimension_type"`
	DimensionLabel string `yaml:"dimension_label"`
}

// Settings holds per-repository generation settings.
type Settings struct {
	Enabled     bool `yaml:"enabled"`
	ArchiveSize int  `yaml:"archive_size"` // entries per archive chunk, 0 = global default
}

// FacetList builds the repository's facets from its definitions, using
// the given registry for identity defaults.
func (c *Config) FacetList(reg facet.Registry) []facet.Facet {
	res := make([]facet.Facet, 0, len(c.Facets))
	for _, fc := range c.Facets {
		res = append(res, fc.Build(reg))
	}
	return res
}

// References builds the classifier reference data (prefix table and
// resource labels) from the configuration.
func (c *Config) References() *facet.References {
	return facet.NewReferences(c.Prefixes, c.Resources)
}

// Build constructs a facet from this definition: registry defaults for
// the identity, then per-field overrides.
func (fc FacetConfig) Build(reg facet.Registry) facet.Facet {
	f := reg.New(fc.Identity)

	if fc.Label != "" {
		f.Label = fc.Label
	}
	if fc.PageTitle != "" {
		f.PageTitle = fc.PageTitle
	}
	if fc.Selector != "" {
		f.Selector = facet.FuncID(fc.Selector)
	}
	if fc.Key != "" {
		f.Key = facet.FuncID(fc.Key)
	}
	if fc.Identificator != "" {
		f.Identificator = facet.FuncID(fc.Identificator)
	}
	if fc.ToplevelOnly != nil {
		f.ToplevelOnly = *fc.ToplevelOnly
	}
	if fc.UseForToc != nil {
		f.UseForToc = *fc.UseForToc
	}
	if fc.UseForFeed != nil {
		f.UseForFeed = *fc.UseForFeed
	}
	if fc.SelectorDescending != nil {
		f.SelectorDescending = *fc.SelectorDescending
	}
	if fc.KeyDescending != nil {
		f.KeyDescending = *fc.KeyDescending
	}
	if fc.MultipleValues != nil {
		f.MultipleValues = *fc.MultipleValues
	}
	if fc.DimensionType != "" {
		f.DimensionType = fc.DimensionType
	}
	if fc.DimensionLabel != "" {
		f.DimensionLabel = fc.DimensionLabel
	}
	return f
}
