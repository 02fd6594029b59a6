// Package loader reads configuration documents from disk.
package loader

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE

import (
	"context"

	"github.com/cloudposse/tierconf/pkg/schema"
)

// Loader produces the full set of documents for the Document Store.
type Loader interface {
	Load(ctx context.Context) ([]schema.Document, error)
}
