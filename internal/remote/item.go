package remote

import (
	"context"
	"strings"
	"time"
)

// Kind distinguishes the two item classes the watched folder can produce.
type Kind string

const (
	KindDocument Kind = "document"
	KindImage    Kind = "image"
)

// Item is an immutable snapshot of one remote file at listing time.
type Item struct {
	ID         string
	Name       string
	ModifiedAt time.Time
	Kind       Kind
}

// Lister returns the current file listing for a watched folder.
type Lister interface {
	List(ctx context.Context, folderID string) ([]Item, error)
}

// KindForMIME maps a Drive MIME type to an item kind. PDFs are documents;
// everything else lands in image, which matches what a scanner deposits.
func KindForMIME(mimeType string) Kind {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "application/pdf" {
		return KindDocument
	}
	return KindImage
}
