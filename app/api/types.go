package api

import (
	"context"

	"github.com/staalberg/facetnav/app/config"
	"github.com/staalberg/facetnav/app/database"
	"github.com/staalberg/facetnav/app/generate"
)

type GeneratorInterface interface {
	RunRepo(ctx context.Context, alias string, force bool) error
}

var _ GeneratorInterface = (*generate.Generator)(nil)

type Handler struct {
	configCache *config.ConfigCache
	rowRepo     database.RowRepository
	entryRepo   database.EntryRepository
	generator   GeneratorInterface
	outDir      string
}
