package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tollgate/models"
	"tollgate/photo"
)

var fixedNow = time.Date(2024, 1, 15, 8, 30, 45, 123000000, time.UTC)

func testCompiler() *Compiler {
	c := NewCompiler("", []string{"PT. MAKASSAR METRO NETWORK", "PT. MAKASSAR AIRPORT NETWORK"},
		"UNIT OPERASIONAL PENGUMPULAN TOL", "LAPORAN KEJADIAN OPERASIONAL GERBANG")
	c.now = func() time.Time { return fixedNow }
	return c
}

func sampleRecord() models.IncidentRecord {
	rec := models.SampleIncidents(fixedNow)[0]
	rec.Chronology = `Palang macet\nsaat hujan\t deras`
	return rec
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "-"},
		{"   ", "-"},
		{`tes\n`, "tes"},
		{`a\nb\rc\td`, "a b c d"},
		{"a\nb\r\nc\td", "a b c d"},
		{`two  \n  spaces`, "two spaces"},
		{"Motor Rusak", "Motor Rusak"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompileSectionOrder(t *testing.T) {
	doc := testCompiler().Compile(sampleRecord(), nil)

	if doc.Header.DocumentNumber != "202401150830" {
		t.Errorf("document number = %q", doc.Header.DocumentNumber)
	}
	if doc.Header.IssueDate != "15/01/2024" || doc.Header.Revision != "00" {
		t.Errorf("header = %+v", doc.Header)
	}

	var headings []string
	var kinds []BlockKind
	for _, b := range doc.Blocks {
		kinds = append(kinds, b.Kind)
		if b.Kind == BlockHeading {
			headings = append(headings, b.Text)
		}
	}

	wantHeadings := []string{
		"1. INFORMASI KEJADIAN",
		"2. KRONOLOGI KEJADIAN",
		"3. JENIS GANGGUAN",
		"4. TINDAKAN",
		"5. PETUGAS",
		"6. STATUS TINDAKAN",
		"7. INFORMASI TAMBAHAN",
		"8. FOTO DOKUMENTASI",
	}
	if strings.Join(headings, "|") != strings.Join(wantHeadings, "|") {
		t.Errorf("headings = %v", headings)
	}

	wantKinds := []BlockKind{
		BlockHeading, BlockKeyValueTable,
		BlockHeading, BlockParagraph,
		BlockHeading, BlockGridTable,
		BlockHeading, BlockGridTable,
		BlockHeading, BlockGridTable,
		BlockHeading, BlockKeyValueTable,
		BlockHeading, BlockKeyValueTable,
		BlockHeading, BlockPlaceholder,
		BlockFooter,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("got %d blocks, want %d", len(kinds), len(wantKinds))
	}
	for i := range kinds {
		if kinds[i] != wantKinds[i] {
			t.Errorf("block %d = %s, want %s", i, kinds[i], wantKinds[i])
		}
	}
}

func TestCompileTables(t *testing.T) {
	doc := testCompiler().Compile(sampleRecord(), nil)

	faults := doc.Blocks[5]
	if len(faults.Rows) != 4 {
		t.Fatalf("fault table has %d rows, want 4", len(faults.Rows))
	}
	if faults.Rows[0][2] != "Motor Rusak" || faults.Rows[1][2] != "-" {
		t.Errorf("fault rows = %v", faults.Rows)
	}
	if len(doc.Blocks[7].Rows) != 5 || len(doc.Blocks[9].Rows) != 5 {
		t.Errorf("action/personnel tables must have 5 rows")
	}
	if got := doc.Blocks[3].Text; got != "Palang macet saat hujan deras" {
		t.Errorf("chronology = %q", got)
	}
	status := doc.Blocks[11]
	if status.Rows[0][1] != "Selesai" || status.Rows[1][1] != "2" || status.Rows[2][1] != "1" {
		t.Errorf("status rows = %v", status.Rows)
	}
	extra := doc.Blocks[13]
	if extra.Rows[1][0] != "Waktu Penanganan" || extra.Rows[1][1] != "08:45" {
		t.Errorf("supplementary rows = %v", extra.Rows)
	}
}

func TestCompilePhotoLayouts(t *testing.T) {
	before := Photo{Label: "Foto Sebelum", Path: "a.jpg"}
	after := Photo{Label: "Foto Sesudah", Path: "b.jpg"}

	tests := []struct {
		name   string
		photos []Photo
		kind   BlockKind
		size   PhotoSize
	}{
		{"both", []Photo{before, after}, BlockPhotos, PairPhotoSize},
		{"one", []Photo{after}, BlockPhotos, SinglePhotoSize},
		{"none", nil, BlockPlaceholder, PhotoSize{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testCompiler().Compile(sampleRecord(), tt.photos)
			block := doc.Blocks[len(doc.Blocks)-2]
			if block.Kind != tt.kind {
				t.Fatalf("photo block kind = %s, want %s", block.Kind, tt.kind)
			}
			if tt.kind == BlockPlaceholder {
				if block.Text != "Tidak ada foto dokumentasi" {
					t.Errorf("placeholder = %q", block.Text)
				}
				return
			}
			if got := block.Layout(); got != tt.size {
				t.Errorf("layout = %+v, want %+v", got, tt.size)
			}
		})
	}
}

func TestPDFRendererProducesPDF(t *testing.T) {
	dir := t.TempDir()
	photoPath := filepath.Join(dir, "foto.jpg")
	jpg, err := photo.NewCompressor(true, 1200, 80).ToJPEG(pngImage(t, 120, 80))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(photoPath, jpg, 0o644); err != nil {
		t.Fatal(err)
	}

	doc := testCompiler().Compile(sampleRecord(), []Photo{
		{Label: "Foto Sebelum", Path: photoPath},
		{Label: "Foto Sesudah", Path: photoPath},
	})

	var buf bytes.Buffer
	if err := NewPDFRenderer().Render(doc, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: uint8(y), B: uint8(x), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type recordingRenderer struct {
	doc Document
	err error
}

func (r *recordingRenderer) Render(doc Document, w io.Writer) error {
	r.doc = doc
	if r.err != nil {
		w.Write([]byte("partial"))
		return r.err
	}
	_, err := w.Write([]byte("%PDF-1.3 test"))
	return err
}

func newTestService(t *testing.T, renderer Renderer) (*Service, string, string) {
	t.Helper()
	public := t.TempDir()
	staging := t.TempDir()
	s := NewService(
		photo.NewFetcher(public, 5*time.Second),
		testCompiler(),
		renderer,
		filepath.Join(public, "reports"),
		nil,
		10*time.Second,
	)
	s.tempRoot = staging
	s.now = func() time.Time { return fixedNow }
	return s, public, staging
}

func TestGenerate(t *testing.T) {
	renderer := &recordingRenderer{}
	s, public, staging := newTestService(t, renderer)

	if err := os.MkdirAll(filepath.Join(public, "uploads"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(public, "uploads", "before.png"), pngImage(t, 40, 30), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := sampleRecord()
	rec.PhotoBefore = "/uploads/before.png"
	rec.PhotoAfter = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngImage(t, 30, 40))

	artifact, err := s.Generate(context.Background(), rec)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantName := "Laporan_Kejadian_2024-01-15T08-30-45-123Z.pdf"
	if artifact.Filename != wantName || artifact.URL != "/reports/"+wantName {
		t.Errorf("artifact = %+v", artifact)
	}
	if _, err := os.Stat(filepath.Join(public, "reports", wantName)); err != nil {
		t.Errorf("report file missing: %v", err)
	}

	photos := renderer.doc.Blocks[len(renderer.doc.Blocks)-2]
	if photos.Kind != BlockPhotos || len(photos.Photos) != 2 {
		t.Fatalf("photo block = %+v", photos)
	}
	if photos.Photos[0].Label != "Foto Sebelum" || photos.Photos[1].Label != "Foto Sesudah" {
		t.Errorf("photo order = %+v", photos.Photos)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("staging directory not cleaned: %v", entries)
	}
}

func TestGenerateSkipsUnreadablePhotos(t *testing.T) {
	renderer := &recordingRenderer{}
	s, _, _ := newTestService(t, renderer)

	rec := sampleRecord()
	rec.PhotoBefore = "/uploads/missing.jpg"
	rec.PhotoAfter = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))

	if _, err := s.Generate(context.Background(), rec); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	block := renderer.doc.Blocks[len(renderer.doc.Blocks)-2]
	if block.Kind != BlockPlaceholder {
		t.Errorf("photo block kind = %s, want placeholder", block.Kind)
	}
}

func TestGenerateRenderFailure(t *testing.T) {
	s, public, staging := newTestService(t, &recordingRenderer{err: errors.New("boom")})

	_, err := s.Generate(context.Background(), sampleRecord())
	if !errors.Is(err, models.ErrReportGenerationFailed) {
		t.Fatalf("err = %v, want ErrReportGenerationFailed", err)
	}

	entries, _ := os.ReadDir(filepath.Join(public, "reports"))
	if len(entries) != 0 {
		t.Errorf("output directory not empty after failure: %v", entries)
	}
	staged, _ := os.ReadDir(staging)
	if len(staged) != 0 {
		t.Errorf("staging directory not cleaned: %v", staged)
	}
}

func TestGenerateCancelled(t *testing.T) {
	s, _, _ := newTestService(t, &recordingRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Generate(ctx, sampleRecord()); !errors.Is(err, models.ErrReportGenerationFailed) {
		t.Errorf("err = %v, want ErrReportGenerationFailed", err)
	}
}

func TestArtifactLink(t *testing.T) {
	local := Artifact{Filename: "a.pdf", URL: "/reports/a.pdf"}
	if url, localURL := local.Link(); url != "/reports/a.pdf" || localURL != "" {
		t.Errorf("local Link() = %q, %q", url, localURL)
	}

	uploaded := Artifact{Filename: "a.pdf", URL: "/reports/a.pdf", RemoteURL: "https://objects.test/a.pdf"}
	if url, localURL := uploaded.Link(); url != "https://objects.test/a.pdf" || localURL != "/reports/a.pdf" {
		t.Errorf("uploaded Link() = %q, %q", url, localURL)
	}
}
