package report

import (
	"strings"
	"time"

	"tollgate/models"
)

const placeholder = models.NoneMarker

// Compiler turns an incident record into a Document.
type Compiler struct {
	LogoPath      string
	Organizations []string
	Unit          string
	Title         string

	now func() time.Time
}

func NewCompiler(logoPath string, organizations []string, unit, title string) *Compiler {
	return &Compiler{
		LogoPath:      logoPath,
		Organizations: organizations,
		Unit:          unit,
		Title:         title,
		now:           time.Now,
	}
}

var textEscapes = strings.NewReplacer(`\n`, " ", `\r`, " ", `\t`, " ")

// Sanitize collapses escaped and real line breaks and tabs to single
// spaces. Blank values become "-".
func Sanitize(s string) string {
	s = strings.Join(strings.Fields(textEscapes.Replace(s)), " ")
	if s == "" {
		return placeholder
	}
	return s
}

// Compile builds the report sections in their fixed order. photos holds the
// resolved photo files, before first.
func (c *Compiler) Compile(rec models.IncidentRecord, photos []Photo) Document {
	now := c.now()

	doc := Document{
		Title: "Laporan Kejadian",
		Header: Header{
			LogoPath:       c.LogoPath,
			Organizations:  c.Organizations,
			Unit:           c.Unit,
			Title:          c.Title,
			DocumentNumber: now.Format("200601021504"),
			IssueDate:      now.Format("02/01/2006"),
			Revision:       "00",
		},
	}

	kv := func(rows ...[2]string) Block {
		b := Block{Kind: BlockKeyValueTable}
		for _, r := range rows {
			b.Rows = append(b.Rows, []string{r[0], Sanitize(r[1])})
		}
		return b
	}
	heading := func(text string) Block {
		return Block{Kind: BlockHeading, Text: text}
	}

	doc.Blocks = append(doc.Blocks,
		heading("1. INFORMASI KEJADIAN"),
		kv(
			[2]string{"Tanggal Kejadian", rec.Date},
			[2]string{"Waktu Kejadian", rec.Time},
			[2]string{"Shift", rec.Shift},
			[2]string{"Gardu", rec.Gate},
			[2]string{"Lokasi", rec.Location},
		),

		heading("2. KRONOLOGI KEJADIAN"),
		Block{Kind: BlockParagraph, Text: Sanitize(rec.Chronology)},

		heading("3. JENIS GANGGUAN"),
		Block{
			Kind:    BlockGridTable,
			Columns: []string{"No", "Jenis Gangguan", "Keterangan"},
			Widths:  []float64{15, 50, 95},
			Rows: [][]string{
				{"1", "Gangguan Palang", Sanitize(rec.FaultGateArm)},
				{"2", "Gangguan Reader/Periferal", Sanitize(rec.FaultReader)},
				{"3", "Gangguan Sistem", Sanitize(rec.FaultSystem)},
				{"4", "Gangguan Kelistrikan", Sanitize(rec.FaultPower)},
			},
		},

		heading("4. TINDAKAN"),
		Block{
			Kind:    BlockGridTable,
			Columns: []string{"No", "Pelaksana", "Tindakan"},
			Widths:  []float64{15, 30, 115},
			Rows: [][]string{
				{"1", "KSPT", Sanitize(rec.ActionKSPT)},
				{"2", "IT", Sanitize(rec.ActionIT)},
				{"3", "Teknisi", Sanitize(rec.ActionTech)},
				{"4", "PulTol", Sanitize(rec.ActionPultol)},
				{"5", "Security", Sanitize(rec.ActionSecurity)},
			},
		},

		heading("5. PETUGAS"),
		Block{
			Kind:    BlockGridTable,
			Columns: []string{"Jabatan", "Nama"},
			Widths:  []float64{50, 110},
			Rows: [][]string{
				{"Petugas KSPT", Sanitize(rec.OfficerKSPT)},
				{"Petugas PulTol", Sanitize(rec.OfficerPultol)},
				{"Petugas IT", Sanitize(rec.OfficerIT)},
				{"Petugas Teknisi", Sanitize(rec.OfficerTech)},
				{"Petugas Security", Sanitize(rec.OfficerSecurity)},
			},
		},

		heading("6. STATUS TINDAKAN"),
		kv(
			[2]string{"Status", rec.Status},
			[2]string{"Jumlah Alarm", rec.AlarmCount},
			[2]string{"Jumlah Reset", rec.ResetCount},
		),

		heading("7. INFORMASI TAMBAHAN"),
		kv(
			[2]string{"Waktu Menginformasikan", rec.NotifiedAt},
			[2]string{"Waktu Penanganan", rec.HandledAt},
			[2]string{"Antrian Kendaraan", rec.VehicleQueue},
			[2]string{"Keluhan Pengguna Jalan", rec.Complaint},
		),

		heading("8. FOTO DOKUMENTASI"),
	)

	if len(photos) > 0 {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockPhotos, Photos: photos})
	} else {
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockPlaceholder, Text: "Tidak ada foto dokumentasi"})
	}

	doc.Blocks = append(doc.Blocks, Block{
		Kind: BlockFooter,
		Lines: []string{
			"Dokumen ini dibuat secara otomatis oleh Sistem Monitoring TOL",
			"Tanggal: " + now.Format("02/01/2006 15:04:05"),
		},
	})
	return doc
}
