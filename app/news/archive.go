package news

import (
	"fmt"
	"time"
)

// DefaultArchiveSize is the number of entries per archive chunk when
// the caller does not specify one. The main file holds up to twice
// this amount.
const DefaultArchiveSize = 100

// ArchiveFile is one output file of an archived feed: either the main
// (live) file or an archive chunk. Chunks are numbered from 1, oldest
// first, and chained: each chunk links one chunk back (PrevArchive) and
// one chunk forward (NextArchive), where the most recent chunk links
// forward to the main file. The main file links back to the most
// recent chunk.
type ArchiveFile struct {
	Title       string
	Slug        string
	Suffix      string // "-archive-N" for chunks, empty for the main file
	Entries     []*Entry
	PrevArchive string // file name of the previous (older) file, empty for the oldest
	NextArchive string // file name of the next (newer) file, empty for the main file
	Updated     time.Time
}

// Filename returns the file name this archive file is published under.
func (a *ArchiveFile) Filename() string {
	return a.Slug + a.Suffix + ".atom"
}

// SplitArchive chunks a newest-first entry list into a bounded main
// file plus linked archive files. While at least 2×archiveSize entries
// remain, the oldest archiveSize entries are cut off the tail into a
// new chunk; the main file keeps whatever remains (between archiveSize
// and 2×archiveSize-1 entries, or fewer when nothing was ever cut).
// The main file is first in the returned slice, followed by the chunks
// oldest first. Concatenating chunks oldest-to-newest followed by the
// main file reproduces the input exactly.
func SplitArchive(entries []*Entry, title, slug string, archiveSize int) []*ArchiveFile {
	if archiveSize <= 0 {
		archiveSize = DefaultArchiveSize
	}

	chunkName := func(n int) string {
		return fmt.Sprintf("%s-archive-%d.atom", slug, n)
	}

	cnt := 0
	rest := entries
	chunks := make([]*ArchiveFile, 0)
	for len(rest) >= 2*archiveSize {
		cnt++
		cut := rest[len(rest)-archiveSize:]
		rest = rest[:len(rest)-archiveSize]

		prev := ""
		if cnt > 1 {
			prev = chunkName(cnt - 1)
		}
		next := chunkName(cnt + 1)
		if len(rest) < 2*archiveSize {
			next = slug + ".atom"
		}
		chunks = append(chunks, &ArchiveFile{
			Title:       title,
			Slug:        slug,
			Suffix:      fmt.Sprintf("-archive-%d", cnt),
			Entries:     cut,
			PrevArchive: prev,
			NextArchive: next,
			Updated:     maxUpdated(cut),
		})
	}

	main := &ArchiveFile{
		Title:   title,
		Slug:    slug,
		Entries: rest,
		Updated: maxUpdated(rest),
	}
	if cnt > 0 {
		main.PrevArchive = chunkName(cnt)
	}

	res := make([]*ArchiveFile, 0, len(chunks)+1)
	res = append(res, main)
	res = append(res, chunks...)
	return res
}

func maxUpdated(entries []*Entry) time.Time {
	if len(entries) == 0 {
		return time.Now()
	}
	max := entries[0].Updated
	for _, e := range entries[1:] {
		if e.Updated.After(max) {
			max = e.Updated
		}
	}
	return max
}
