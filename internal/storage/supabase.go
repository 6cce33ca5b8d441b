package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	supastorage "github.com/supabase-community/storage-go"

	"oddrafter/internal/logging"
)

// listPageSize is the number of objects requested per list call. The
// Storage API caps a single page, so List walks pages until a short one.
const listPageSize = 1000

// objectAPI is the subset of the storage-go client used by SupabaseStore.
type objectAPI interface {
	ListFiles(bucketId string, queryPath string, options supastorage.FileSearchOptions) ([]supastorage.FileObject, error)
	DownloadFile(bucketId string, filePath string, urlOptions ...supastorage.UrlOptions) ([]byte, error)
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...supastorage.FileOptions) (supastorage.FileUploadResponse, error)
	GetPublicUrl(bucketId string, filePath string, urlOptions ...supastorage.UrlOptions) supastorage.SignedUrlResponse
}

// SupabaseStore keeps objects in the root of one Supabase Storage bucket.
type SupabaseStore struct {
	api    objectAPI
	bucket string
	logger *logging.AppLogger
}

// NewSupabaseStore connects to the Storage API of the project at projectURL
// (for example https://abc.supabase.co) using key.
func NewSupabaseStore(projectURL, key, bucket string, logger *logging.AppLogger) (*SupabaseStore, error) {
	if strings.TrimSpace(projectURL) == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("supabase key is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	client := supastorage.NewClient(StorageEndpoint(projectURL), key, map[string]string{
		"apikey": key,
	})
	return newSupabaseStore(client, bucket, logger), nil
}

func newSupabaseStore(api objectAPI, bucket string, logger *logging.AppLogger) *SupabaseStore {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &SupabaseStore{api: api, bucket: bucket, logger: logger}
}

// StorageEndpoint derives the Storage API base URL from a project URL.
func StorageEndpoint(projectURL string) string {
	base := strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if strings.HasSuffix(base, "/storage/v1") {
		return base
	}
	return base + "/storage/v1"
}

// Bucket returns the bucket name.
func (s *SupabaseStore) Bucket() string {
	return s.bucket
}

func (s *SupabaseStore) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	for offset := 0; ; offset += listPageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.api.ListFiles(s.bucket, "", supastorage.FileSearchOptions{
			Limit:  listPageSize,
			Offset: offset,
			SortByOptions: supastorage.SortBy{
				Column: "name",
				Order:  "asc",
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, err)
		}

		for _, f := range page {
			objects = append(objects, Object{
				Name:      f.Name,
				UpdatedAt: parseTimestamp(f.UpdatedAt),
			})
		}

		if len(page) < listPageSize {
			break
		}
	}

	s.logger.Debug("Listed bucket", "bucket", s.bucket, "objects", len(objects))
	return objects, nil
}

func (s *SupabaseStore) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.api.DownloadFile(s.bucket, name)
	if err != nil {
		if isStatus(err, "404", "not found") {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	return data, nil
}

func (s *SupabaseStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := false
	_, err := s.api.UploadFile(s.bucket, name, bytes.NewReader(data), supastorage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		if isStatus(err, "409", "already exists", "duplicate") {
			return fmt.Errorf("%w: %s", ErrExists, name)
		}
		return fmt.Errorf("upload failed: %w", err)
	}

	s.logger.Debug("Uploaded object", "bucket", s.bucket, "name", name, "bytes", len(data))
	return nil
}

func (s *SupabaseStore) PublicURL(name string) string {
	return s.api.GetPublicUrl(s.bucket, name).SignedURL
}

// isStatus reports whether err carries any of the given status codes or
// message fragments. storage-go surfaces API errors as text.
func isStatus(err error, markers ...string) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
