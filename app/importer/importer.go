package importer

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmcdole/gofeed"

	"github.com/staalberg/facetnav/app/database"
	"github.com/staalberg/facetnav/app/news"
)

// Importer seeds a repository's entry store from an existing RSS/Atom
// document, typically when migrating a site that already publishes a
// feed. Imported entries are skeletal; the generation pipeline fills
// the derivable fields on its next run.
type Importer struct {
	parser    *gofeed.Parser
	entryRepo database.EntryRepository
}

func NewImporter(entryRepo database.EntryRepository) *Importer {
	return &Importer{
		parser:    gofeed.NewParser(),
		entryRepo: entryRepo,
	}
}

// RunFile imports every item of the feed document at path into the
// given repository.
func (i *Importer) RunFile(repo, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()
	return i.Run(repo, f)
}

// Run imports every item of the feed document read from r. It returns
// the number of imported entries; items without a usable identifier
// are skipped with a warning.
func (i *Importer) Run(repo string, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read feed data: %w", err)
	}

	feed, err := i.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	imported := 0
	for _, item := range feed.Items {
		entry, ok := i.convertItem(item)
		if !ok {
			slog.Warn("Feed item without identifier skipped", "repo", repo, "title", item.Title)
			continue
		}

		if err := i.entryRepo.UpsertEntry(repo, entry); err != nil {
			return imported, fmt.Errorf("failed to store entry %s: %w", entry.URI, err)
		}
		imported++
	}

	slog.Info("Feed imported", "repo", repo, "title", feed.Title, "entries", imported)
	return imported, nil
}

func (i *Importer) convertItem(item *gofeed.Item) (*news.Entry, bool) {
	uri := coalesce(item.GUID, item.Link)
	if uri == "" {
		return nil, false
	}

	entry := &news.Entry{
		URI:     uri,
		URL:     item.Link,
		Title:   item.Title,
		Summary: item.Description,
	}

	if item.PublishedParsed != nil {
		entry.Published = *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		entry.Updated = *item.UpdatedParsed
	} else {
		entry.Updated = entry.Published
	}

	if item.Content != "" {
		entry.Content = news.ContentRef{Markup: item.Content}
	}
	if len(item.Enclosures) > 0 {
		enc := item.Enclosures[0]
		entry.Link = news.LinkRef{Href: enc.URL, Type: enc.Type}
		if n, err := parseLength(enc.Length); err == nil {
			entry.Link.Length = n
		}
	}

	return entry, true
}

func parseLength(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
