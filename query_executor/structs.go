package executor

import (
	storageengine "CatalogDB/storage_engine"
	"io"
	"log/slog"
)

// Executor runs parsed statements against a storage engine and writes the
// results to out.
type Executor struct {
	storageEngine *storageengine.StorageEngine
	out           io.Writer
	log           *slog.Logger
}
