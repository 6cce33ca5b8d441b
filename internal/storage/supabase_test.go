package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	supastorage "github.com/supabase-community/storage-go"

	"oddrafter/internal/logging"
)

// fakeObjectAPI mimics the Storage API responses storage-go surfaces.
type fakeObjectAPI struct {
	files       map[string][]byte
	order       []string
	uploads     []supastorage.FileOptions
	listCalls   []supastorage.FileSearchOptions
	downloadErr error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{files: make(map[string][]byte)}
}

func (f *fakeObjectAPI) ListFiles(bucketId string, queryPath string, options supastorage.FileSearchOptions) ([]supastorage.FileObject, error) {
	f.listCalls = append(f.listCalls, options)
	var page []supastorage.FileObject
	for i := options.Offset; i < len(f.order) && len(page) < options.Limit; i++ {
		page = append(page, supastorage.FileObject{Name: f.order[i], BucketId: bucketId})
	}
	return page, nil
}

func (f *fakeObjectAPI) DownloadFile(bucketId string, filePath string, urlOptions ...supastorage.UrlOptions) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.files[filePath]
	if !ok {
		return nil, errors.New(`{"statusCode":"404","error":"not_found","message":"Object not found"}`)
	}
	return data, nil
}

func (f *fakeObjectAPI) UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...supastorage.FileOptions) (supastorage.FileUploadResponse, error) {
	f.uploads = append(f.uploads, fileOptions...)
	if _, ok := f.files[relativePath]; ok {
		return supastorage.FileUploadResponse{}, errors.New(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`)
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return supastorage.FileUploadResponse{}, err
	}
	f.files[relativePath] = b
	f.order = append(f.order, relativePath)
	return supastorage.FileUploadResponse{}, nil
}

func (f *fakeObjectAPI) GetPublicUrl(bucketId string, filePath string, urlOptions ...supastorage.UrlOptions) supastorage.SignedUrlResponse {
	return supastorage.SignedUrlResponse{
		SignedURL: "https://abc.supabase.co/storage/v1/object/public/" + bucketId + "/" + filePath,
	}
}

func TestSupabaseStore(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	api := newFakeObjectAPI()
	s := newSupabaseStore(api, "od-files", logger)

	exerciseStore(t, s)

	require.NotEmpty(t, api.uploads)
	opts := api.uploads[0]
	require.NotNil(t, opts.Upsert)
	assert.False(t, *opts.Upsert, "uploads must never upsert")
	require.NotNil(t, opts.ContentType)
	assert.Equal(t, DocxContentType, *opts.ContentType)

	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/od-files/100.docx", s.PublicURL("100.docx"))
}

func TestSupabaseStore_ListPaginates(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	api := newFakeObjectAPI()
	for i := 0; i < listPageSize+5; i++ {
		name := fmt.Sprintf("q%d.docx", i)
		api.files[name] = nil
		api.order = append(api.order, name)
	}
	s := newSupabaseStore(api, "od-files", logger)

	objects, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, listPageSize+5)
	require.Len(t, api.listCalls, 2)
	assert.Equal(t, listPageSize, api.listCalls[1].Offset)
}

func TestSupabaseStore_DownloadError(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	api := newFakeObjectAPI()
	api.downloadErr = errors.New("connection reset")
	s := newSupabaseStore(api, "od-files", logger)

	_, err := s.Download(context.Background(), "100.docx")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewSupabaseStore_Validation(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, err := NewSupabaseStore("", "key", "od-files", logger)
	assert.Error(t, err)
	_, err = NewSupabaseStore("https://abc.supabase.co", "", "od-files", logger)
	assert.Error(t, err)
	_, err = NewSupabaseStore("https://abc.supabase.co", "key", "", logger)
	assert.Error(t, err)

	s, err := NewSupabaseStore("https://abc.supabase.co", "key", "od-files", logger)
	require.NoError(t, err)
	assert.Equal(t, "od-files", s.Bucket())
}

func TestStorageEndpoint(t *testing.T) {
	assert.Equal(t, "https://abc.supabase.co/storage/v1", StorageEndpoint("https://abc.supabase.co"))
	assert.Equal(t, "https://abc.supabase.co/storage/v1", StorageEndpoint("https://abc.supabase.co/"))
	assert.Equal(t, "https://abc.supabase.co/storage/v1", StorageEndpoint("https://abc.supabase.co/storage/v1"))
}
