package database

import (
	"time"

	"github.com/staalberg/facetnav/app/facet"
	"github.com/staalberg/facetnav/app/news"
)

type RowRepository interface {
	FacetedRows(repo string) ([]facet.Row, error)
	ReplaceRows(repo string, rows []facet.Row) error
	GetRowCount(repo string) (int, error)
}

type EntryRepository interface {
	PublishedEntries(repo string) ([]*news.Entry, error)
	UpsertEntry(repo string, entry *news.Entry) error
	SaveEntry(repo string, entry *news.Entry) error
	GetEntryCount(repo string) (int, error)
	LastModified(repo string) (time.Time, error)
}
