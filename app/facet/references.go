package facet

import (
	"strings"
)

// Well-known predicate URIs, used as facet identities and as keys into
// the defaults registry.
const (
	RDFType      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSResource = "http://www.w3.org/2000/01/rdf-schema#Resource"

	DCCreator = "http://purl.org/dc/elements/1.1/creator"
	DCSubject = "http://purl.org/dc/elements/1.1/subject"

	DCTermsTitle      = "http://purl.org/dc/terms/title"
	DCTermsIdentifier = "http://purl.org/dc/terms/identifier"
	DCTermsAbstract   = "http://purl.org/dc/terms/abstract"
	DCTermsPublisher  = "http://purl.org/dc/terms/publisher"
	DCTermsReferences = "http://purl.org/dc/terms/references"
	DCTermsIssued     = "http://purl.org/dc/terms/issued"
	DCTermsSubject    = "http://purl.org/dc/terms/subject"

	SchemaFree = "http://schema.org/free"
)

// labelProperties is the priority order for resource label lookups.
var labelProperties = []string{
	"skos:prefLabel",
	"skos:altLabel",
	"dcterms:title",
	"dcterms:alternative",
	"foaf:name",
}

// References is the reference dataset handed to classifier functions:
// a namespace prefix table for qname derivation and a label dataset for
// resource-label lookups. It is immutable after construction.
type References struct {
	prefixes map[string]string            // prefix -> namespace URI
	labels   map[string]map[string]string // resource URI -> property qname -> value
}

// NewReferences builds a reference dataset. The default prefix table is
// always present; the supplied prefixes extend or override it.
func NewReferences(prefixes map[string]string, labels map[string]map[string]string) *References {
	merged := DefaultPrefixes()
	for p, ns := range prefixes {
		merged[p] = ns
	}
	if labels == nil {
		labels = map[string]map[string]string{}
	}
	return &References{prefixes: merged, labels: labels}
}

// DefaultPrefixes returns the namespace prefixes known out of the box.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
		"dc":      "http://purl.org/dc/elements/1.1/",
		"dcterms": "http://purl.org/dc/terms/",
		"skos":    "http://www.w3.org/2004/02/skos/core#",
		"foaf":    "http://xmlns.com/foaf/0.1/",
		"schema":  "http://schema.org/",
		"bibo":    "http://purl.org/ontology/bibo/",
		"xsd":     "http://www.w3.org/2001/XMLSchema#",
	}
}

// Label returns the best label for a resource, trying the label-bearing
// properties in priority order.
func (r *References) Label(resource string) (string, bool) {
	props, ok := r.labels[resource]
	if !ok {
		return "", false
	}
	for _, p := range labelProperties {
		if v, ok := props[p]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// QName shortens a URI to prefix:leaf form using the longest matching
// registered namespace.
func (r *References) QName(uri string) (string, bool) {
	bestPrefix, bestNS := "", ""
	for p, ns := range r.prefixes {
		if strings.HasPrefix(uri, ns) && len(ns) > len(bestNS) {
			bestPrefix, bestNS = p, ns
		}
	}
	if bestNS == "" {
		return "", false
	}
	return bestPrefix + ":" + uri[len(bestNS):], true
}
