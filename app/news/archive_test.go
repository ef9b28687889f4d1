package news

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// newestFirst builds n entries sorted newest first, as SplitArchive
// expects its input.
func newestFirst(n int) []*Entry {
	entries := make([]*Entry, n)
	for i := 0; i < n; i++ {
		age := n - i // entry 0 is the newest
		entries[i] = &Entry{
			URI:       fmt.Sprintf("http://ex.org/doc/%d", age),
			Title:     fmt.Sprintf("Document %d", age),
			Published: day(age),
			Updated:   day(age),
		}
	}
	return entries
}

func TestSplitArchiveSmall(t *testing.T) {
	// fewer than 2×archiveSize entries: a single main file, no chunks
	files := SplitArchive(newestFirst(19), "All documents", "main", 10)
	if len(files) != 1 {
		t.Fatalf("Expected only the main file, got: %d files", len(files))
	}
	main := files[0]
	if main.Suffix != "" {
		t.Errorf("Main file must not carry a numeric suffix, got: %s", main.Suffix)
	}
	if main.PrevArchive != "" || main.NextArchive != "" {
		t.Errorf("Expected no archive links without chunks, got prev=%q next=%q",
			main.PrevArchive, main.NextArchive)
	}
	if len(main.Entries) != 19 {
		t.Errorf("Expected 19 entries in main, got: %d", len(main.Entries))
	}
}

func TestSplitArchive25(t *testing.T) {
	// 25 entries, size 10: one chunk of the 10 oldest plus a main of 15
	files := SplitArchive(newestFirst(25), "All documents", "main", 10)
	if len(files) != 2 {
		t.Fatalf("Expected main + 1 chunk, got: %d files", len(files))
	}
	main, chunk := files[0], files[1]
	if len(main.Entries) != 15 || len(chunk.Entries) != 10 {
		t.Fatalf("Expected 15/10 split, got: %d/%d", len(main.Entries), len(chunk.Entries))
	}
	if chunk.Suffix != "-archive-1" {
		t.Errorf("Expected first chunk suffix '-archive-1', got: %s", chunk.Suffix)
	}
	if chunk.PrevArchive != "" {
		t.Errorf("Oldest chunk must have no prev link, got: %s", chunk.PrevArchive)
	}
	if chunk.NextArchive != "main.atom" {
		t.Errorf("Expected newest chunk to link to the main file, got: %s", chunk.NextArchive)
	}
	if main.PrevArchive != "main-archive-1.atom" {
		t.Errorf("Expected main to link back to the newest chunk, got: %s", main.PrevArchive)
	}
	// chunk 1 holds the oldest entries
	if chunk.Entries[len(chunk.Entries)-1].URI != "http://ex.org/doc/1" {
		t.Errorf("Expected the oldest entry at the chunk tail, got: %s",
			chunk.Entries[len(chunk.Entries)-1].URI)
	}
}

func TestSplitArchive30(t *testing.T) {
	// 30 entries, size 10: two chunks of 10 plus a main of 10
	files := SplitArchive(newestFirst(30), "All documents", "main", 10)
	if len(files) != 3 {
		t.Fatalf("Expected main + 2 chunks, got: %d files", len(files))
	}
	main, first, second := files[0], files[1], files[2]
	if len(main.Entries) != 10 || len(first.Entries) != 10 || len(second.Entries) != 10 {
		t.Fatalf("Expected 10/10/10 split, got: %d/%d/%d",
			len(main.Entries), len(first.Entries), len(second.Entries))
	}
	if first.NextArchive != "main-archive-2.atom" {
		t.Errorf("Expected chunk 1 to link forward to chunk 2, got: %s", first.NextArchive)
	}
	if second.PrevArchive != "main-archive-1.atom" {
		t.Errorf("Expected chunk 2 to link back to chunk 1, got: %s", second.PrevArchive)
	}
	if second.NextArchive != "main.atom" {
		t.Errorf("Expected chunk 2 to link forward to main, got: %s", second.NextArchive)
	}
	if main.PrevArchive != "main-archive-2.atom" {
		t.Errorf("Expected main to link back to chunk 2, got: %s", main.PrevArchive)
	}
}

func TestSplitArchiveRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 19, 20, 21, 25, 30, 99, 100, 199, 200, 201} {
		for _, size := range []int{1, 3, 10, 100} {
			entries := newestFirst(n)
			files := SplitArchive(entries, "t", "s", size)

			// chunks are cut off the tail, so main followed by
			// chunks newest-first reproduces the newest-first input
			var reassembled []*Entry
			reassembled = append(reassembled, files[0].Entries...)
			for i := len(files) - 1; i >= 1; i-- {
				reassembled = append(reassembled, files[i].Entries...)
			}

			if len(reassembled) != n {
				t.Fatalf("n=%d size=%d: expected %d entries total, got %d", n, size, n, len(reassembled))
			}
			seen := map[string]bool{}
			for i, e := range reassembled {
				if seen[e.URI] {
					t.Fatalf("n=%d size=%d: duplicate entry %s", n, size, e.URI)
				}
				seen[e.URI] = true
				if e.URI != entries[i].URI {
					t.Fatalf("n=%d size=%d: order broken at %d: %s != %s",
						n, size, i, e.URI, entries[i].URI)
				}
			}
		}
	}
}

func TestSplitArchiveChainIntegrity(t *testing.T) {
	for _, n := range []int{0, 5, 25, 30, 95, 200} {
		size := 10
		files := SplitArchive(newestFirst(n), "t", "main", size)

		byName := map[string]*ArchiveFile{}
		for _, f := range files {
			byName[f.Filename()] = f
		}

		chunks := len(files) - 1
		if chunks == 0 {
			continue
		}

		// walk forward from the oldest chunk; must reach main without cycles
		cur := files[1]
		hops := 0
		for cur.NextArchive != "" {
			next, ok := byName[cur.NextArchive]
			if !ok {
				t.Fatalf("n=%d: dangling next link %s", n, cur.NextArchive)
			}
			cur = next
			hops++
			if hops > len(files) {
				t.Fatalf("n=%d: cycle in archive chain", n)
			}
		}
		if cur != files[0] {
			t.Errorf("n=%d: chain does not end at the main file", n)
		}
		if hops != chunks {
			t.Errorf("n=%d: expected %d hops to main, got %d", n, chunks, hops)
		}
	}
}

func TestSplitArchiveSizeOne(t *testing.T) {
	files := SplitArchive(newestFirst(3), "t", "s", 1)
	// 3 entries, size 1: cut until fewer than 2 remain
	if len(files) != 3 {
		t.Fatalf("Expected main + 2 chunks, got: %d", len(files))
	}
	if len(files[0].Entries) != 1 {
		t.Errorf("Expected 1 entry in main, got: %d", len(files[0].Entries))
	}
}

func TestSplitArchiveDefaultSize(t *testing.T) {
	files := SplitArchive(newestFirst(250), "t", "s", 0)
	// default size 100: one chunk of 100, main of 150
	if len(files) != 2 {
		t.Fatalf("Expected default archive size %d to apply, got %d files",
			DefaultArchiveSize, len(files))
	}
	if len(files[0].Entries) != 150 || len(files[1].Entries) != 100 {
		t.Errorf("Expected 150/100 split, got: %d/%d",
			len(files[0].Entries), len(files[1].Entries))
	}
}

func TestSplitArchiveUpdated(t *testing.T) {
	entries := newestFirst(25)
	files := SplitArchive(entries, "t", "s", 10)

	// each file's updated is the max among its own entries
	if !files[0].Updated.Equal(entries[0].Updated) {
		t.Errorf("Expected main updated %v, got %v", entries[0].Updated, files[0].Updated)
	}
	chunk := files[1]
	if !chunk.Updated.Equal(chunk.Entries[0].Updated) {
		t.Errorf("Expected chunk updated %v, got %v", chunk.Entries[0].Updated, chunk.Updated)
	}

	// empty input: updated falls back to the current time
	empty := SplitArchive(nil, "t", "s", 10)
	if time.Since(empty[0].Updated) > time.Minute {
		t.Error("Expected empty file updated to default to now")
	}
}

func TestArchiveFilename(t *testing.T) {
	files := SplitArchive(newestFirst(25), "t", "issued/2010", 10)
	if files[0].Filename() != "issued/2010.atom" {
		t.Errorf("Unexpected main filename: %s", files[0].Filename())
	}
	if files[1].Filename() != "issued/2010-archive-1.atom" {
		t.Errorf("Unexpected chunk filename: %s", files[1].Filename())
	}
	if !strings.HasPrefix(files[0].PrevArchive, "issued/2010-archive-") {
		t.Errorf("Unexpected main prev link: %s", files[0].PrevArchive)
	}
}
