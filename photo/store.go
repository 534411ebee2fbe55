package photo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// LocalStore writes files to a directory served under a URL prefix.
type LocalStore struct {
	dir    string
	prefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, prefix: "/" + strings.Trim(urlPrefix, "/") + "/"}
}

// Save writes data under name and returns its URL path.
func (s *LocalStore) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filepath.Base(name)), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return s.prefix + filepath.Base(name), nil
}

// Object is a stored remote object.
type Object struct {
	ID  string
	URL string
}

// ObjectStore uploads files to a cloud store and makes them link-readable.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (Object, error)
	// Owns reports whether a URL points at an object of this store.
	Owns(url string) bool
}

// DriveStore uploads to a Google Drive folder.
type DriveStore struct {
	service  *drive.Service
	folderID string
}

func NewDriveStore(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveStore, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Drive client: %w", err)
	}
	return &DriveStore{service: service, folderID: folderID}, nil
}

func (s *DriveStore) Upload(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	file := &drive.File{Name: name}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	created, err := s.service.Files.Create(file).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, fmt.Errorf("drive upload failed: %w", err)
	}

	perm := &drive.Permission{Role: "reader", Type: "anyone"}
	if _, err := s.service.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
		return Object{}, fmt.Errorf("drive share failed: %w", err)
	}

	return Object{ID: created.Id, URL: DriveViewURL(created.Id)}, nil
}

func (s *DriveStore) Owns(url string) bool {
	return strings.HasPrefix(url, "https://drive.google.com/uc?export=view&id=")
}

// BucketStore uploads to a Cloud Storage bucket with public-read objects.
type BucketStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewBucketStore(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*BucketStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Cloud Storage client: %w", err)
	}
	return &BucketStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *BucketStore) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *BucketStore) Upload(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	objName := s.objectName(name)
	w := s.client.Bucket(s.bucket).Object(objName).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return Object{}, fmt.Errorf("bucket upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("bucket upload failed: %w", err)
	}

	return Object{
		ID:  objName,
		URL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objName),
	}, nil
}

func (s *BucketStore) Owns(url string) bool {
	return strings.HasPrefix(url, fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket))
}

// Close releases the storage client.
func (s *BucketStore) Close() error {
	return s.client.Close()
}
