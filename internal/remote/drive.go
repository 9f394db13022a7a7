package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"cardwatch/internal/config"
	"cardwatch/internal/logging"
)

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime)"

// DriveLister lists the watched folder through the Google Drive API.
type DriveLister struct {
	svc      *drive.Service
	pageSize int64
	limiter  *RateLimiter
	logger   *slog.Logger
}

// NewDriveLister builds a Drive client from the remote configuration.
// Credentials come from a service-account JSON key file or, failing that, a
// static OAuth token.
func NewDriveLister(ctx context.Context, cfg config.Remote, logger *slog.Logger) (*DriveLister, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveLister{
		svc:      svc,
		pageSize: cfg.PageSize,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:   logging.NewComponentLogger(logger, "remote"),
	}, nil
}

func clientOptions(cfg config.Remote) ([]option.ClientOption, error) {
	switch {
	case cfg.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}, nil
	case cfg.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		return []option.ClientOption{option.WithTokenSource(ts)}, nil
	default:
		return nil, errors.New("drive access requires credentials_file or token")
	}
}

// List fetches the full listing of folderID, following pagination. Item
// order is exactly the order the API returned; callers depend on it being
// stable for identical remote state.
func (l *DriveLister) List(ctx context.Context, folderID string) ([]Item, error) {
	query := fmt.Sprintf(
		"'%s' in parents and trashed = false and mimeType != 'application/vnd.google-apps.folder'",
		escapeQueryTerm(folderID),
	)

	var items []Item
	pageToken := ""
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, wrapListError("list folder", err)
		}

		call := l.svc.Files.List().
			Q(query).
			Fields(listFields).
			PageSize(l.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			if seconds := retryAfterSeconds(err); seconds > 0 {
				l.limiter.Backoff(seconds)
			}
			return nil, wrapListError("list folder", err)
		}

		for _, file := range page.Files {
			items = append(items, fileToItem(file))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	l.logger.Debug("listed folder",
		logging.String(logging.FieldFolderID, folderID),
		logging.Int(logging.FieldListingCount, len(items)),
	)
	return items, nil
}

func fileToItem(file *drive.File) Item {
	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		modified = time.Time{}
	}
	return Item{
		ID:         file.Id,
		Name:       file.Name,
		ModifiedAt: modified,
		Kind:       KindForMIME(file.MimeType),
	}
}

// escapeQueryTerm escapes a value for embedding in a Drive query string.
func escapeQueryTerm(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
