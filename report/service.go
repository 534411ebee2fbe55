package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tollgate/models"
	"tollgate/photo"
)

// Artifact is a generated report.
type Artifact struct {
	Filename  string
	Path      string
	URL       string
	RemoteURL string
}

// Link returns the URL to hand out: the uploaded copy when there is one,
// with the local path as localURL.
func (a Artifact) Link() (url, localURL string) {
	if a.RemoteURL != "" {
		return a.RemoteURL, a.URL
	}
	return a.URL, ""
}

// Service resolves the photos of a record, compiles and renders its report
// and stores the PDF in the output directory.
type Service struct {
	fetcher    *photo.Fetcher
	compressor *photo.Compressor
	compiler   *Compiler
	renderer   Renderer
	outputDir  string
	urlPrefix  string
	remote     photo.ObjectStore
	timeout    time.Duration

	// tempRoot is the parent of the per-report staging directories; empty
	// means os.TempDir.
	tempRoot string
	now      func() time.Time
}

// NewService wires a report service. remote may be nil; when set, finished
// reports are uploaded as well.
func NewService(fetcher *photo.Fetcher, compiler *Compiler, renderer Renderer, outputDir string, remote photo.ObjectStore, timeout time.Duration) *Service {
	return &Service{
		fetcher:    fetcher,
		compressor: photo.NewCompressor(true, 1200, 85),
		compiler:   compiler,
		renderer:   renderer,
		outputDir:  outputDir,
		urlPrefix:  "/reports/",
		remote:     remote,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Filename returns the report file name for a generation time.
func Filename(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("Laporan_Kejadian_%s-%03dZ.pdf", t.Format("2006-01-02T15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// Generate produces the report of rec. It never writes to the incident
// store. Every failure wraps models.ErrReportGenerationFailed.
func (s *Service) Generate(ctx context.Context, rec models.IncidentRecord) (Artifact, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tmp, err := os.MkdirTemp(s.tempRoot, "report-*")
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", models.ErrReportGenerationFailed, err)
	}
	defer os.RemoveAll(tmp)

	photos := s.resolvePhotos(ctx, tmp, rec)
	if err := ctx.Err(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", models.ErrReportGenerationFailed, err)
	}

	doc := s.compiler.Compile(rec, photos)

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", models.ErrReportGenerationFailed, err)
	}

	filename := Filename(s.now())
	path := filepath.Join(s.outputDir, filename)
	if err := s.render(doc, path); err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", models.ErrReportGenerationFailed, err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(path)
		return Artifact{}, fmt.Errorf("%w: %v", models.ErrReportGenerationFailed, err)
	}

	log.Printf("📄 Report generated: %s", path)
	artifact := Artifact{
		Filename: filename,
		Path:     path,
		URL:      s.urlPrefix + filename,
	}

	if s.remote != nil {
		data, err := os.ReadFile(path)
		if err == nil {
			var obj photo.Object
			obj, err = s.remote.Upload(ctx, filename, "application/pdf", data)
			artifact.RemoteURL = obj.URL
		}
		if err != nil {
			log.Printf("⚠️  Report upload failed, keeping local copy: %v", err)
		}
	}
	return artifact, nil
}

// render writes to a partial file and renames it into place. A failed
// render leaves no file behind.
func (s *Service) render(doc Document, path string) error {
	partial := path + ".part"
	f, err := os.Create(partial)
	if err != nil {
		return err
	}

	if err := s.renderer.Render(doc, f); err != nil {
		f.Close()
		os.Remove(partial)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, path); err != nil {
		os.Remove(partial)
		return err
	}

	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		os.Remove(path)
		return fmt.Errorf("report file was not created")
	}
	return nil
}

// resolvePhotos fetches both photo fields into dir as JPEG files. A photo
// that cannot be fetched or decoded is left out of the report.
func (s *Service) resolvePhotos(ctx context.Context, dir string, rec models.IncidentRecord) []Photo {
	fields := []struct {
		label, value, file string
	}{
		{"Foto Sebelum", rec.PhotoBefore, "foto_sebelum.jpg"},
		{"Foto Sesudah", rec.PhotoAfter, "foto_sesudah.jpg"},
	}

	var photos []Photo
	for _, f := range fields {
		src := photo.ParseSource(f.value)
		if src.Kind == photo.KindNone {
			continue
		}

		data, err := s.fetcher.Fetch(ctx, src)
		if err != nil {
			log.Printf("⚠️  %s not included in report: %v", f.label, err)
			continue
		}
		jpg, err := s.compressor.ToJPEG(data)
		if err != nil {
			log.Printf("⚠️  %s is not a readable image: %v", f.label, err)
			continue
		}

		path := filepath.Join(dir, f.file)
		if err := os.WriteFile(path, jpg, 0o600); err != nil {
			log.Printf("⚠️  Failed to stage %s: %v", f.label, err)
			continue
		}
		photos = append(photos, Photo{Label: f.label, Path: path})
	}
	return photos
}
