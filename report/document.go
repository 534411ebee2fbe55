// Package report builds the incident report of one record as a structured
// document and renders it to PDF.
package report

// BlockKind identifies how a block is laid out.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockKeyValueTable
	BlockGridTable
	BlockParagraph
	BlockPhotos
	BlockPlaceholder
	BlockFooter
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockKeyValueTable:
		return "key-value"
	case BlockGridTable:
		return "grid"
	case BlockParagraph:
		return "paragraph"
	case BlockPhotos:
		return "photos"
	case BlockPlaceholder:
		return "placeholder"
	case BlockFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Document is a renderer-independent description of a report.
type Document struct {
	Title  string
	Header Header
	Blocks []Block
}

// Header is the boxed identity block on top of the first page.
type Header struct {
	LogoPath       string
	Organizations  []string
	Unit           string
	Title          string
	DocumentNumber string
	IssueDate      string
	Revision       string
}

// Block is one element of the report body. Which fields are used depends on
// Kind:
//   - Heading, Paragraph, Placeholder: Text
//   - KeyValueTable: Rows of [label, value]
//   - GridTable: Columns, Rows, Widths (mm)
//   - Photos: Photos
//   - Footer: Lines
type Block struct {
	Kind    BlockKind
	Text    string
	Columns []string
	Rows    [][]string
	Widths  []float64
	Photos  []Photo
	Lines   []string
}

// Photo is an image file on disk with its caption.
type Photo struct {
	Label string
	Path  string
}

// PhotoSize is the box a photo is drawn into, in mm.
type PhotoSize struct {
	Width  float64
	Height float64
}

var (
	// PairPhotoSize is used when both photos are present, side by side.
	PairPhotoSize = PhotoSize{Width: 75, Height: 50}
	// SinglePhotoSize is used for a lone centered photo.
	SinglePhotoSize = PhotoSize{Width: 100, Height: 60}
)

// Layout returns the size of every photo in a photo block.
func (b Block) Layout() PhotoSize {
	if len(b.Photos) > 1 {
		return PairPhotoSize
	}
	return SinglePhotoSize
}
