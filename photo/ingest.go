package photo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tollgate/models"
)

// Result is the outcome of one ingestion. URL is the reference to store in
// the record: the remote URL when the upload worked, the local one otherwise.
type Result struct {
	URL      string
	Filename string
	LocalURL string
	RemoteID string
}

// Ingestor fetches, compresses and persists photos. The local copy is
// always written before any upload is attempted.
type Ingestor struct {
	fetcher    *Fetcher
	compressor *Compressor
	local      *LocalStore
	remote     ObjectStore
	timeout    time.Duration

	now     func() time.Time
	newName func(time.Time) string
}

// NewIngestor wires an ingestor. remote may be nil.
func NewIngestor(fetcher *Fetcher, compressor *Compressor, local *LocalStore, remote ObjectStore, timeout time.Duration) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		compressor: compressor,
		local:      local,
		remote:     remote,
		timeout:    timeout,
		now:        time.Now,
		newName:    photoName,
	}
}

// photoName builds photo_<unix millis>_<random>.jpg.
func photoName(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("photo_%d_%s.jpg", now.UnixMilli(), random)
}

// Ingest stores the photo behind descriptor. Upload failures fall back to
// the local URL; only a failed fetch or local write is an error.
func (i *Ingestor) Ingest(ctx context.Context, descriptor string) (Result, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	src := ParseSource(descriptor)
	data, err := i.fetcher.Fetch(ctx, src)
	if err != nil {
		return Result{}, err
	}

	data = i.compressor.Compress(data)
	name := i.newName(i.now())

	localURL, err := i.local.Save(name, data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
	}
	log.Printf("📷 Photo saved locally: %s", localURL)

	result := Result{URL: localURL, Filename: name}
	if i.remote == nil {
		return result, nil
	}

	obj, err := i.remote.Upload(ctx, name, http.DetectContentType(data), data)
	if err != nil {
		log.Printf("⚠️  Photo upload failed, using local storage: %v", err)
		return result, nil
	}

	log.Printf("☁️  Photo uploaded: %s", obj.URL)
	result.URL = obj.URL
	result.LocalURL = localURL
	result.RemoteID = obj.ID
	return result, nil
}

// keep reports whether a stored reference is already canonical: a local
// file that exists or an object of the configured store.
func (i *Ingestor) keep(descriptor string) bool {
	src := ParseSource(descriptor)
	switch src.Kind {
	case KindLocal:
		_, err := i.fetcher.readLocal(src.Value)
		return err == nil
	case KindRemote, KindDrive:
		return i.remote != nil && i.remote.Owns(strings.TrimSpace(descriptor))
	}
	return false
}

// IngestRecord resolves both photo fields of rec. A field that cannot be
// ingested is cleared; the record itself never fails.
func (i *Ingestor) IngestRecord(ctx context.Context, rec models.IncidentRecord) models.IncidentRecord {
	rec.PhotoBefore = i.ingestField(ctx, models.ColPhotoBefore, rec.PhotoBefore)
	rec.PhotoAfter = i.ingestField(ctx, models.ColPhotoAfter, rec.PhotoAfter)
	return rec
}

func (i *Ingestor) ingestField(ctx context.Context, column, value string) string {
	if ParseSource(value).Kind == KindNone {
		return ""
	}
	if i.keep(value) {
		return strings.TrimSpace(value)
	}

	result, err := i.Ingest(ctx, value)
	if err != nil {
		if !errors.Is(err, models.ErrIngestionFailed) {
			err = fmt.Errorf("%w: %v", models.ErrIngestionFailed, err)
		}
		log.Printf("⚠️  %s dropped: %v", column, err)
		return ""
	}
	return result.URL
}
