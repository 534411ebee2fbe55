package recap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"tollgate/models"
)

// ExportHeader is the header row of recap exports.
var ExportHeader = []string{
	"No", "Tanggal", "Waktu", "Shift", "Gardu", "Lokasi", "Petugas KSPT", "Petugas PulTol", "Status",
	"G. Palang", "G. Reader", "G. Sistem", "G. Listrik",
}

func exportRow(i int, rec models.IncidentRecord) []string {
	return []string{
		strconv.Itoa(i + 1),
		rec.Date,
		rec.Time,
		rec.Shift,
		rec.Gate,
		rec.Location,
		rec.OfficerKSPT,
		rec.OfficerPultol,
		rec.Status,
		rec.FaultGateArm,
		rec.FaultReader,
		rec.FaultSystem,
		rec.FaultPower,
	}
}

// ExportName is the download name of a recap export without extension.
func ExportName(p Period) string {
	if p.Month >= 1 && p.Month <= 12 {
		return fmt.Sprintf("Rekap_%s_%d", MonthNames[p.Month-1], p.Year)
	}
	return fmt.Sprintf("Rekap_Tahunan_%d", p.Year)
}

// WriteCSV writes records as CSV, numbered from 1.
func WriteCSV(w io.Writer, records []models.IncidentRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for i, rec := range records {
		if err := writer.Write(exportRow(i, rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const (
	dataSheet    = "Data"
	summarySheet = "Ringkasan"
)

// WriteXLSX writes a workbook with the records on one sheet and the recap
// of p on another.
func WriteXLSX(w io.Writer, records []models.IncidentRecord, p Period) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := setRow(f, dataSheet, 1, ExportHeader); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err := f.SetCellStyle(dataSheet, "A1", last, header); err != nil {
		return err
	}
	for i, rec := range records {
		if err := setRow(f, dataSheet, i+2, exportRow(i, rec)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	stats := Compute(records)
	summary := [][]string{
		{"Periode", p.Label()},
		{"Total Kejadian", strconv.Itoa(stats.Total)},
		{"Selesai", strconv.Itoa(stats.Done)},
		{"Proses", strconv.Itoa(stats.InProgress)},
		{"Pending", strconv.Itoa(stats.Pending)},
		{"Tingkat Penyelesaian (%)", strconv.Itoa(stats.CompletionRate)},
		{"Gangguan Palang", strconv.Itoa(stats.Faults.GateArm)},
		{"Gangguan Reader", strconv.Itoa(stats.Faults.Reader)},
		{"Gangguan Sistem", strconv.Itoa(stats.Faults.System)},
		{"Gangguan Kelistrikan", strconv.Itoa(stats.Faults.Power)},
		{"Shift I", strconv.Itoa(stats.Shifts.I)},
		{"Shift II", strconv.Itoa(stats.Shifts.II)},
		{"Shift III", strconv.Itoa(stats.Shifts.III)},
		{"Total Alarm", strconv.Itoa(stats.Alarms)},
		{"Total Reset", strconv.Itoa(stats.Resets)},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func itoa(n int) string { return strconv.Itoa(n) }
