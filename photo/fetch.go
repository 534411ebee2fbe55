package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tollgate/models"
)

// maxPhotoBytes caps a single downloaded photo.
const maxPhotoBytes = 25 << 20

var errSecondRedirect = errors.New("stopped after one redirect")

// Fetcher retrieves the bytes behind a photo source.
type Fetcher struct {
	client    *http.Client
	publicDir string
}

// NewFetcher creates a fetcher. Local sources are read below publicDir.
// Remote fetches follow at most one redirect.
func NewFetcher(publicDir string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 1 {
					return errSecondRedirect
				}
				return nil
			},
		},
		publicDir: publicDir,
	}
}

// Fetch returns the image bytes of src. Every failure wraps
// models.ErrIngestionFailed.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind {
	case KindInline:
		data, err := decodeBase64(src.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid inline image: %v", models.ErrIngestionFailed, err)
		}
		return data, nil
	case KindLocal:
		return f.readLocal(src.Value)
	case KindDrive, KindRemote:
		return f.download(ctx, src.Value)
	case KindNone:
		return nil, fmt.Errorf("%w: no photo", models.ErrIngestionFailed)
	default:
		return nil, fmt.Errorf("%w: unsupported photo reference", models.ErrIngestionFailed)
	}
}

// LocalPath maps a /uploads/ or /reports/ URL path to a file below the
// public directory. Paths escaping it are rejected.
func (f *Fetcher) LocalPath(urlPath string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(urlPath, "/"))
	allowed := false
	for _, prefix := range LocalPrefixes {
		if strings.HasPrefix(clean+"/", prefix) && clean+"/" != prefix {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("%w: path %q outside public directory", models.ErrIngestionFailed, urlPath)
	}
	return filepath.Join(f.publicDir, filepath.FromSlash(clean)), nil
}

func (f *Fetcher) readLocal(urlPath string) ([]byte, error) {
	path, err := f.LocalPath(urlPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", models.ErrIngestionFailed, rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", models.ErrIngestionFailed, rawURL, maxPhotoBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s returned no data", models.ErrIngestionFailed, rawURL)
	}
	return data, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
