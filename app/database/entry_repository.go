package database

import (
	"fmt"
	"time"

	"github.com/staalberg/facetnav/app/news"
)

var _ EntryRepository = (*EntryRepo)(nil)

// EntryRepo handles database operations for feed entries. Timestamps
// are stored as RFC 3339 text; the empty string means "not set".
type EntryRepo struct {
	db *DB
}

func NewEntryRepository(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

const entryColumns = `uri, basefile, url, title, summary, published, updated,
	content_src, content_markup, content_type, content_hash,
	link_href, link_type, link_length, link_hash`

// PublishedEntries returns every entry of the repository that has a
// published timestamp, most recently updated first.
func (r *EntryRepo) PublishedEntries(repo string) ([]*news.Entry, error) {
	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE repo = ? AND published != ''
		ORDER BY updated DESC, id
	`, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var res []*news.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return res, nil
}

// UpsertEntry inserts or updates an entry keyed by (repo, uri).
func (r *EntryRepo) UpsertEntry(repo string, entry *news.Entry) error {
	_, err := r.db.Exec(`
		INSERT INTO entries (repo, `+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repo, uri) DO UPDATE SET
			basefile = excluded.basefile,
			url = excluded.url,
			title = excluded.title,
			summary = excluded.summary,
			published = excluded.published,
			updated = excluded.updated,
			content_src = excluded.content_src,
			content_markup = excluded.content_markup,
			content_type = excluded.content_type,
			content_hash = excluded.content_hash,
			link_href = excluded.link_href,
			link_type = excluded.link_type,
			link_length = excluded.link_length,
			link_hash = excluded.link_hash,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, entryArgs(repo, entry)...)

	if err != nil {
		return fmt.Errorf("failed to upsert entry %s: %w", entry.URI, err)
	}
	return nil
}

// SaveEntry persists an entry modified in memory (after defaulting) and
// clears its dirty flag.
func (r *EntryRepo) SaveEntry(repo string, entry *news.Entry) error {
	if err := r.UpsertEntry(repo, entry); err != nil {
		return err
	}
	entry.Dirty = false
	return nil
}

// GetEntryCount returns the number of stored entries for a repository.
func (r *EntryRepo) GetEntryCount(repo string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM entries WHERE repo = ?`, repo).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}

// LastModified returns the most recent change timestamp over the
// repository's rows and entries, the staleness input for regeneration.
// A repository with no stored data yields the zero time.
func (r *EntryRepo) LastModified(repo string) (time.Time, error) {
	var stamp string
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(ts), '') FROM (
			SELECT MAX(updated_at) AS ts FROM entries WHERE repo = ?
			UNION ALL
			SELECT MAX(created_at) AS ts FROM document_rows WHERE repo = ?
		)
	`, repo, repo).Scan(&stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last modified: %w", err)
	}
	if stamp == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last modified '%s': %w", stamp, err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(sc rowScanner) (*news.Entry, error) {
	var entry news.Entry
	var published, updated string

	err := sc.Scan(
		&entry.URI, &entry.Basefile, &entry.URL, &entry.Title, &entry.Summary,
		&published, &updated,
		&entry.Content.Src, &entry.Content.Markup, &entry.Content.Type, &entry.Content.Hash,
		&entry.Link.Href, &entry.Link.Type, &entry.Link.Length, &entry.Link.Hash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	if entry.Published, err = parseStamp(published); err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.URI, err)
	}
	if entry.Updated, err = parseStamp(updated); err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.URI, err)
	}

	return &entry, nil
}

func entryArgs(repo string, entry *news.Entry) []interface{} {
	return []interface{}{
		repo,
		entry.URI, entry.Basefile, entry.URL, entry.Title, entry.Summary,
		formatStamp(entry.Published), formatStamp(entry.Updated),
		entry.Content.Src, entry.Content.Markup, entry.Content.Type, entry.Content.Hash,
		entry.Link.Href, entry.Link.Type, entry.Link.Length, entry.Link.Hash,
	}
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseStamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp '%s': %w", s, err)
	}
	return t, nil
}
