package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"log"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Compressor re-encodes photos as RGB JPEG no wider than MaxWidth.
type Compressor struct {
	Enabled  bool
	MaxWidth int
	Quality  int
}

// NewCompressor returns a compressor with the standard limits.
func NewCompressor(enabled bool, maxWidth, quality int) *Compressor {
	if maxWidth <= 0 {
		maxWidth = 1200
	}
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	return &Compressor{Enabled: enabled, MaxWidth: maxWidth, Quality: quality}
}

// Compress returns the re-encoded image, or data unchanged when it is
// disabled or anything fails.
func (c *Compressor) Compress(data []byte) []byte {
	if c == nil || !c.Enabled {
		return data
	}
	out, err := c.ToJPEG(data)
	if err != nil {
		log.Printf("⚠️  Compression failed, using original: %v", err)
		return data
	}
	return out
}

// ToJPEG decodes any supported format, flattens it onto white, downscales
// it to MaxWidth and encodes it as JPEG.
func (c *Compressor) ToJPEG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if c.MaxWidth > 0 && width > c.MaxWidth {
		height = height * c.MaxWidth / width
		if height < 1 {
			height = 1
		}
		width = c.MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
