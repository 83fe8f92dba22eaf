package files

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

const (
	downloadHost  = "https://firebasestorage.googleapis.com/v0/b/"
	objectMarker  = "/o/"
	altMediaQuery = "?alt=media"
)

// Uploader stores files under reference/refID keys.
type Uploader struct {
	store ObjectStore
}

func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{store: store}
}

// Upload writes r to reference/refID and returns its download URL.
// Whitespace in refID is dropped.
func (u *Uploader) Upload(ctx context.Context, reference, refID string, r io.Reader, contentType string) (string, error) {
	path, err := ObjectKey(reference, refID)
	if err != nil {
		return "", err
	}
	if err := u.store.Put(ctx, path, r, contentType); err != nil {
		return "", err
	}
	return DownloadURL(u.store.Bucket(), path), nil
}

// Remove deletes the object a download URL points at.
func (u *Uploader) Remove(ctx context.Context, downloadURL string) error {
	path, err := ObjectPath(downloadURL)
	if err != nil {
		return err
	}
	return u.store.Delete(ctx, path)
}

// ObjectKey builds the object path for an upload.
func ObjectKey(reference, refID string) (string, error) {
	reference = strings.Trim(reference, "/")
	refID = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, refID)

	if reference == "" {
		return "", fmt.Errorf("%w: empty reference", domain.ErrInvalidArgument)
	}
	if refID == "" {
		return "", fmt.Errorf("%w: empty reference id", domain.ErrInvalidArgument)
	}
	return reference + "/" + refID, nil
}

// DownloadURL renders the public download URL of path in bucket.
func DownloadURL(bucket, path string) string {
	return downloadHost + bucket + objectMarker + url.PathEscape(path) + altMediaQuery
}

// ObjectPath recovers the object path from a download URL: the decoded text
// between "/o/" and "?alt=media".
func ObjectPath(downloadURL string) (string, error) {
	decoded, err := url.PathUnescape(downloadURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed download url: %v", domain.ErrInvalidArgument, err)
	}

	start := strings.Index(decoded, objectMarker)
	if start < 0 {
		return "", fmt.Errorf("%w: download url has no object path", domain.ErrInvalidArgument)
	}
	start += len(objectMarker)
	end := strings.Index(decoded[start:], altMediaQuery)
	if end < 0 {
		return "", fmt.Errorf("%w: download url is not a media link", domain.ErrInvalidArgument)
	}

	path := decoded[start : start+end]
	if path == "" {
		return "", fmt.Errorf("%w: download url has an empty object path", domain.ErrInvalidArgument)
	}
	return path, nil
}
