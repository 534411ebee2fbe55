package recap

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"tollgate/models"
)

func rec(date, shift, status, gate string) models.IncidentRecord {
	return models.IncidentRecord{
		Date:         date,
		Shift:        shift,
		Status:       status,
		Gate:         gate,
		FaultGateArm: models.NoneMarker,
		FaultReader:  models.NoneMarker,
		FaultSystem:  models.NoneMarker,
		FaultPower:   models.NoneMarker,
	}
}

func TestClassifyShift(t *testing.T) {
	tests := []struct {
		in   string
		want Shift
	}{
		{"I ( satu )", ShiftI},
		{"I(Satu)", ShiftI},
		{"i", ShiftI},
		{"1", ShiftI},
		{"Shift Satu", ShiftI},
		{"II ( dua )", ShiftII},
		{"II(Dua)", ShiftII},
		{"2", ShiftII},
		{"III (Tiga)", ShiftIII},
		{"iii(tiga)", ShiftIII},
		{"III", ShiftIII},
		{"3", ShiftIII},
		{"Pagi", ShiftUnknown},
		{"", ShiftUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyShift(tt.in); got != tt.want {
			t.Errorf("ClassifyShift(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComputeShiftsAreExclusive(t *testing.T) {
	stats := Compute([]models.IncidentRecord{
		rec("2024-01-01", "III (Tiga)", "Selesai", "Gardu 1"),
	})
	if stats.Shifts.III != 1 || stats.Shifts.II != 0 || stats.Shifts.I != 0 {
		t.Errorf("shifts = %+v, want only III", stats.Shifts)
	}
}

func TestComputeStatusAndFaults(t *testing.T) {
	records := []models.IncidentRecord{
		rec("2024-01-01", "I", "Selesai", "Gardu 1"),
		rec("2024-01-02", "II", "Proses", "Gardu 1"),
		rec("2024-01-03", "II", "Dalam Proses", "Gardu 2"),
		rec("2024-01-04", "I", "", ""),
		rec("2024-01-05", "I", "Menunggu", "-"),
	}
	records[0].FaultGateArm = "Motor Rusak"
	records[1].FaultReader = "Reader Error"
	records[1].FaultPower = "  "
	records[2].FaultSystem = "Server Down"
	records[0].AlarmCount = "3"
	records[1].AlarmCount = " 2 "
	records[2].AlarmCount = "banyak"
	records[0].ResetCount = "1"

	stats := Compute(records)

	if stats.Total != 5 || stats.Done != 1 || stats.InProgress != 2 || stats.Pending != 2 {
		t.Errorf("status counts = %+v", stats)
	}
	want := FaultCounts{GateArm: 1, Reader: 1, System: 1, Power: 0}
	if stats.Faults != want {
		t.Errorf("faults = %+v, want %+v", stats.Faults, want)
	}
	if stats.Alarms != 5 || stats.Resets != 1 {
		t.Errorf("alarms = %d, resets = %d, want 5 and 1", stats.Alarms, stats.Resets)
	}
	if stats.CompletionRate != 20 {
		t.Errorf("completion rate = %d, want 20", stats.CompletionRate)
	}

	wantGates := []Count{{"Gardu 1", 2}, {"Gardu 2", 1}, {UnknownValue, 1}}
	if len(stats.ByGate) != len(wantGates) {
		t.Fatalf("byGate = %+v", stats.ByGate)
	}
	for i := range wantGates {
		if stats.ByGate[i] != wantGates[i] {
			t.Errorf("byGate[%d] = %+v, want %+v", i, stats.ByGate[i], wantGates[i])
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil)
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCompletionRateRounds(t *testing.T) {
	if got := CompletionRate(2, 3); got != 67 {
		t.Errorf("CompletionRate(2, 3) = %d, want 67", got)
	}
	if got := CompletionRate(1, 8); got != 13 {
		t.Errorf("CompletionRate(1, 8) = %d, want 13", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"2024-03-05", "2024-03-05", true},
		{"2024-3-5", "2024-03-05", true},
		{"2024/03/05", "2024-03-05", true},
		{"05/03/2024", "2024-03-05", true},
		{"5-3-2024", "2024-03-05", true},
		{"2024-03-05T10:00:00Z", "2024-03-05", true},
		{"kemarin", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.valid {
			t.Errorf("ParseDate(%q) ok = %v", tt.in, ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	records := []models.IncidentRecord{
		rec("2024-01-15", "I", "Selesai", "A"),
		rec("2024-02-01", "I", "Selesai", "A"),
		rec("2023-01-20", "I", "Selesai", "A"),
		rec("bukan tanggal", "I", "Selesai", "A"),
	}

	if got := Filter(records, Period{Year: 2024, Month: 1}); len(got) != 1 || got[0].Date != "2024-01-15" {
		t.Errorf("month filter = %+v", got)
	}
	if got := Filter(records, Period{Year: 2024}); len(got) != 2 {
		t.Errorf("year filter returned %d records, want 2", len(got))
	}
	if got := Filter(records, Period{Year: 2022}); len(got) != 0 {
		t.Errorf("empty period returned %d records", len(got))
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	records := []models.IncidentRecord{
		rec("2024-01-15", "I", "Selesai", "A"),
		rec("2024-01-16", "I", "Proses", "A"),
		rec("2024-12-01", "I", "Selesai", "A"),
		rec("2023-01-15", "I", "Selesai", "A"),
	}
	months := MonthlyBreakdown(records, 2024)
	if len(months) != 12 {
		t.Fatalf("got %d months", len(months))
	}
	if months[0].Label != "Januari" || months[0].Total != 2 || months[0].Done != 1 {
		t.Errorf("january = %+v", months[0])
	}
	if months[11].Label != "Desember" || months[11].Total != 1 {
		t.Errorf("december = %+v", months[11])
	}
	if months[5].Total != 0 {
		t.Errorf("june = %+v", months[5])
	}
}

func TestYears(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []models.IncidentRecord{
		rec("2024-01-15", "I", "", "A"),
		rec("2023-05-15", "I", "", "A"),
		rec("2024-07-15", "I", "", "A"),
	}
	got := Years(records, now)
	want := []int{2026, 2024, 2023}
	if len(got) != len(want) {
		t.Fatalf("Years = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Years = %v, want %v", got, want)
			break
		}
	}
}

func TestPeriodLabelAndExportName(t *testing.T) {
	if got := (Period{Year: 2024, Month: 3}).Label(); got != "Maret 2024" {
		t.Errorf("label = %q", got)
	}
	if got := ExportName(Period{Year: 2024, Month: 3}); got != "Rekap_Maret_2024" {
		t.Errorf("export name = %q", got)
	}
	if got := ExportName(Period{Year: 2024}); got != "Rekap_Tahunan_2024" {
		t.Errorf("export name = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	records := models.SampleIncidents(time.Now())[:2]

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "No" || rows[0][12] != "G. Listrik" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[2][0] != "2" || rows[1][4] != "Gardu 1" {
		t.Errorf("data rows = %v", rows[1:])
	}
}

func TestWriteXLSX(t *testing.T) {
	records := models.SampleIncidents(time.Now())

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records, Period{Year: 2024, Month: 1}); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(dataSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(records)+1 {
		t.Errorf("data sheet has %d rows, want %d", len(rows), len(records)+1)
	}

	period, err := f.GetCellValue(summarySheet, "B1")
	if err != nil || period != "Januari 2024" {
		t.Errorf("summary period = %q, %v", period, err)
	}
	total, _ := f.GetCellValue(summarySheet, "B2")
	if total != "3" {
		t.Errorf("summary total = %q", total)
	}
}
