// Package store persists analysis reports so that binaries can be looked up
// by content digest and grouped by the compiler that built them.
//
// Two backends are provided: [FileStore] keeps one JSON file per digest in a
// local directory, [MongoStore] keeps one document per digest in MongoDB.
// Saving a report for a digest that is already stored replaces it.
package store

import (
	"context"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
)

// Store saves and retrieves reports.
type Store interface {
	pipeline.ReportSaver

	// Get returns the report for a content SHA-256.
	// Missing reports yield a REPORT_NOT_FOUND error.
	Get(ctx context.Context, sha256 string) (*pipeline.Report, error)

	// ByToolchain returns every stored report whose toolchain hash equals
	// hash, newest first.
	ByToolchain(ctx context.Context, hash string) ([]*pipeline.Report, error)

	Close() error
}

func notFound(sha256 string) error {
	return errors.New(errors.ErrCodeReportNotFound, "no report for %s", sha256)
}
