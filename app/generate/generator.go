package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/staalberg/facetnav/app/config"
	"github.com/staalberg/facetnav/app/database"
	"github.com/staalberg/facetnav/app/facet"
	"github.com/staalberg/facetnav/app/news"
	"github.com/staalberg/facetnav/app/toc"
)

// Options carries the process-level settings the generator needs.
type Options struct {
	OutDir          string // root directory for generated files, one subdirectory per repository
	BaseURL         string // public URL prefix the output is served under, with trailing slash
	ArchiveSize     int    // global default, overridable per repository
	RepublishSource bool   // point entry links at source documents instead of generated ones
	AuthorName      string // feed author
	AuthorURI       string
}

// Generator runs the whole publication pipeline for configured
// repositories: classification, TOC pages, feeds and archives.
type Generator struct {
	configCache *config.ConfigCache
	rowRepo     database.RowRepository
	entryRepo   database.EntryRepository
	opts        Options

	tocGen  *toc.Generator
	atomGen *news.Generator
}

func NewGenerator(configCache *config.ConfigCache, rowRepo database.RowRepository,
	entryRepo database.EntryRepository, opts Options) *Generator {
	return &Generator{
		configCache: configCache,
		rowRepo:     rowRepo,
		entryRepo:   entryRepo,
		opts:        opts,
		tocGen:      toc.NewGenerator(),
		atomGen:     news.NewGenerator(opts.AuthorName, opts.AuthorURI),
	}
}

// Run regenerates every enabled repository. One repository's failure is
// logged and does not stop the others.
func (g *Generator) Run(ctx context.Context, force bool) error {
	configs := g.configCache.GetEnabledConfigs()

	aliases := make([]string, 0, len(configs))
	for alias := range configs {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	var failed int
	for _, alias := range aliases {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := g.RunRepo(ctx, alias, force); err != nil {
			slog.Error("Repository generation failed", "repo", alias, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("generation failed for %d of %d repositories", failed, len(aliases))
	}
	return nil
}

// RunRepo regenerates one repository's output, skipping the work when
// the stored data has not changed since the last run (unless forced).
func (g *Generator) RunRepo(ctx context.Context, alias string, force bool) error {
	repoConfig, err := g.configCache.GetConfig(alias)
	if err != nil {
		return fmt.Errorf("failed to get repository config: %w", err)
	}

	lastModified, err := g.entryRepo.LastModified(alias)
	if err != nil {
		return fmt.Errorf("failed to get last modified: %w", err)
	}

	repoDir := filepath.Join(g.opts.OutDir, alias)
	marker := filepath.Join(repoDir, ".generated")
	if !force && !lastModified.IsZero() {
		if info, err := os.Stat(marker); err == nil && info.ModTime().After(lastModified) {
			slog.Debug("Output up to date, skipping", "repo", alias, "last_modified", lastModified)
			return nil
		}
	}

	rows, err := g.rowRepo.FacetedRows(alias)
	if err != nil {
		return fmt.Errorf("failed to load rows: %w", err)
	}

	facets := repoConfig.FacetList(g.configCache.Registry())
	refs := repoConfig.References()

	if err := g.generateToc(alias, rows, facets, refs); err != nil {
		return err
	}
	if err := g.generateFeeds(alias, repoConfig, rows, facets, refs); err != nil {
		return err
	}

	if err := writeFileAtomic(marker, []byte(lastModified.String()+"\n")); err != nil {
		return fmt.Errorf("failed to write generation marker: %w", err)
	}

	slog.Info("Repository generated", "repo", alias, "rows", len(rows), "facets", len(facets))
	return nil
}

func (g *Generator) generateToc(alias string, rows []facet.Row, facets []facet.Facet, refs *facet.References) error {
	pagesets := toc.BuildPagesets(rows, facets, refs)
	assignment := toc.Assign(rows, pagesets, facets, refs)

	basePath := g.opts.BaseURL + alias + "/toc"
	repoDir := filepath.Join(g.opts.OutDir, alias)

	for _, ps := range pagesets {
		for _, page := range ps.Pages {
			items := assignment[toc.PageKey{Binding: page.Binding, Fragment: page.Fragment}]
			html, err := g.tocGen.Run(page, pagesets, items, basePath)
			if err != nil {
				return fmt.Errorf("failed to render TOC page %s/%s: %w", page.Binding, page.Fragment, err)
			}

			path := filepath.Join(repoDir, "toc", page.Binding, page.Fragment+".html")
			if err := writeFileAtomic(path, []byte(html)); err != nil {
				return fmt.Errorf("failed to write TOC page: %w", err)
			}
		}
	}

	// landing page duplicates the first page of the first pageset
	if page, ok := toc.FirstPage(pagesets); ok {
		items := assignment[toc.PageKey{Binding: page.Binding, Fragment: page.Fragment}]
		html, err := g.tocGen.Run(page, pagesets, items, basePath)
		if err != nil {
			return fmt.Errorf("failed to render landing page: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(repoDir, "index.html"), []byte(html)); err != nil {
			return fmt.Errorf("failed to write landing page: %w", err)
		}
	}

	return nil
}

func (g *Generator) generateFeeds(alias string, repoConfig *config.Config, rows []facet.Row,
	facets []facet.Facet, refs *facet.References) error {

	entries, err := g.entryRepo.PublishedEntries(alias)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	rowsByURI := make(map[string]facet.Row, len(rows))
	for _, row := range rows {
		if _, dup := rowsByURI[row.URI()]; !dup {
			rowsByURI[row.URI()] = row
		}
	}
	for _, entry := range entries {
		g.applyEntryDefaults(entry, repoConfig, rowsByURI[entry.URI])
		if entry.Dirty {
			if err := g.entryRepo.SaveEntry(alias, entry); err != nil {
				slog.Warn("Failed to persist defaulted entry", "repo", alias, "uri", entry.URI, "error", err)
			}
		}
	}

	decorated := news.Decorate(rows, entries)
	decoratedRows := make([]facet.Row, len(decorated))
	for i, entry := range decorated {
		decoratedRows[i] = entry.Row
	}

	feedsets := news.BuildFeedsets(decoratedRows, facets, refs)
	news.Assign(decorated, feedsets, facets, refs)

	archiveSize := repoConfig.Settings.ArchiveSize
	if archiveSize <= 0 {
		archiveSize = g.opts.ArchiveSize
	}

	feedBase := g.opts.BaseURL + alias + "/feed/"
	repoDir := filepath.Join(g.opts.OutDir, alias)

	for _, fs := range feedsets {
		for _, feed := range fs.Feeds {
			files := news.SplitArchive(feed.Entries, feed.Title, feed.Slug, archiveSize)
			for _, file := range files {
				atom, err := g.atomGen.Run(file, feedBase)
				if err != nil {
					return fmt.Errorf("failed to render feed %s: %w", file.Filename(), err)
				}

				path := filepath.Join(repoDir, "feed", filepath.FromSlash(file.Filename()))
				if err := writeFileAtomic(path, []byte(atom)); err != nil {
					return fmt.Errorf("failed to write feed file: %w", err)
				}
			}
		}
	}

	return nil
}

// applyEntryDefaults fills the derivable entry fields from the
// repository configuration and the entry's row. The link always points
// at the RDF metadata artifact; the content points at the
// machine-readable document, or at the stored source document when
// republishing raw sources. Changed entries are marked dirty so they
// get persisted.
func (g *Generator) applyEntryDefaults(entry *news.Entry, repoConfig *config.Config, row facet.Row) {
	base := repoConfig.URL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}

	if entry.Basefile == "" {
		entry.Basefile = facet.URILeaf(entry.URI)
		entry.Dirty = true
	}
	if entry.URL == "" {
		entry.URL = base + entry.Basefile
		entry.Dirty = true
	}
	if entry.Title == "" {
		if row != nil && row["title"] != "" {
			entry.Title = row["title"]
		} else {
			entry.Title = entry.Basefile
		}
		entry.Dirty = true
	}
	if entry.Link.Href == "" {
		entry.Link.Href = base + "distilled/" + entry.Basefile + ".rdf"
		entry.Link.Type = "application/rdf+xml"
		entry.Dirty = true
	}
	if entry.Content.Src == "" && entry.Content.Markup == "" {
		if g.opts.RepublishSource {
			entry.Content.Src = base + "source/" + entry.Basefile
			entry.Content.Type = "text/html"
		} else {
			entry.Content.Src = base + "parsed/" + entry.Basefile + ".xhtml"
			entry.Content.Type = "application/xhtml+xml"
		}
		entry.Dirty = true
	}
}

// writeFileAtomic writes data to a temp file in the target directory
// and renames it into place, so readers never observe partial output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
