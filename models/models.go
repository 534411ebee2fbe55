// models.go
// Defines the incident record stored in the backing sheet and the payloads exchanged over the API.

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column headers of the incident sheet, in storage order (A..AD).
const (
	ColTimestamp     = "Header Timestamp"
	ColDate          = "Tanggal Kejadian"
	ColTime          = "Waktu Kejadian"
	ColShift         = "Shift Kejadian"
	ColGate          = "Gardu Kejadian"
	ColNotifiedAt    = "Waktu Mengirformasikan"
	ColHandledAt     = "Waktu Penanganan"
	ColOfficerKSPT   = "PETUGAS KSPT"
	ColOfficerPultol = "PETUGAS PULTOL"
	ColOfficerSec    = "Petugas Security"
	ColOfficerIT     = "PETUGAS IT"
	ColOfficerTech   = "PETUGAS TEKNISI"
	ColLocation      = "Lokasi Kejadian"
	ColChronology    = "Kronologi Kejadian"
	ColVehicleQueue  = "Antrian Kendaraan"
	ColComplaint     = "Keluhan Pengguna Jalan"
	ColActionKSPT    = "Tindakan KSPT"
	ColActionIT      = "Tindakan IT"
	ColActionTech    = "Tindakan Teknisi"
	ColActionPultol  = "Tindakan PulTol"
	ColActionSec     = "Tindakan Security"
	ColFaultGateArm  = "A.Jenis Gangguan - Palang"
	ColFaultReader   = "B.Jenis Gangguan Reader / Periferal"
	ColFaultSystem   = "C. Jenis Gangguan - Sistim"
	ColFaultPower    = "D. Jenis Gangguan - Kelistrikan"
	ColStatus        = "Status Tindakan"
	ColAlarmCount    = "Jumlah Alarm"
	ColResetCount    = "Jumlah Reset"
	ColPhotoBefore   = "Foto Sebelum"
	ColPhotoAfter    = "Foto Sesudah"
)

// Columns is the header row of the incident sheet. Every stored row aligns
// positionally with it.
var Columns = []string{
	ColTimestamp,
	ColDate,
	ColTime,
	ColShift,
	ColGate,
	ColNotifiedAt,
	ColHandledAt,
	ColOfficerKSPT,
	ColOfficerPultol,
	ColOfficerSec,
	ColOfficerIT,
	ColOfficerTech,
	ColLocation,
	ColChronology,
	ColVehicleQueue,
	ColComplaint,
	ColActionKSPT,
	ColActionIT,
	ColActionTech,
	ColActionPultol,
	ColActionSec,
	ColFaultGateArm,
	ColFaultReader,
	ColFaultSystem,
	ColFaultPower,
	ColStatus,
	ColAlarmCount,
	ColResetCount,
	ColPhotoBefore,
	ColPhotoAfter,
}

// NoneMarker is the sentinel stored in a fault category that did not occur.
const NoneMarker = "-"

// IncidentRecord is one row of the incident sheet.
// ID is the 1-based position of the row among the data rows. It is not a
// stable key: deleting an earlier row shifts it down by one.
type IncidentRecord struct {
	ID int `json:"id"`

	Timestamp  string `json:"Header Timestamp"`
	Date       string `json:"Tanggal Kejadian"`
	Time       string `json:"Waktu Kejadian"`
	Shift      string `json:"Shift Kejadian"`
	Gate       string `json:"Gardu Kejadian"`
	NotifiedAt string `json:"Waktu Mengirformasikan"`
	HandledAt  string `json:"Waktu Penanganan"`

	OfficerKSPT     string `json:"PETUGAS KSPT"`
	OfficerPultol   string `json:"PETUGAS PULTOL"`
	OfficerSecurity string `json:"Petugas Security"`
	OfficerIT       string `json:"PETUGAS IT"`
	OfficerTech     string `json:"PETUGAS TEKNISI"`

	Location     string `json:"Lokasi Kejadian"`
	Chronology   string `json:"Kronologi Kejadian"`
	VehicleQueue string `json:"Antrian Kendaraan"`
	Complaint    string `json:"Keluhan Pengguna Jalan"`

	ActionKSPT     string `json:"Tindakan KSPT"`
	ActionIT       string `json:"Tindakan IT"`
	ActionTech     string `json:"Tindakan Teknisi"`
	ActionPultol   string `json:"Tindakan PulTol"`
	ActionSecurity string `json:"Tindakan Security"`

	FaultGateArm string `json:"A.Jenis Gangguan - Palang"`
	FaultReader  string `json:"B.Jenis Gangguan Reader / Periferal"`
	FaultSystem  string `json:"C. Jenis Gangguan - Sistim"`
	FaultPower   string `json:"D. Jenis Gangguan - Kelistrikan"`

	Status     string `json:"Status Tindakan"`
	AlarmCount string `json:"Jumlah Alarm"`
	ResetCount string `json:"Jumlah Reset"`

	PhotoBefore string `json:"Foto Sebelum"`
	PhotoAfter  string `json:"Foto Sesudah"`
}

// cells returns pointers to the record fields in column order.
func (r *IncidentRecord) cells() []*string {
	return []*string{
		&r.Timestamp,
		&r.Date,
		&r.Time,
		&r.Shift,
		&r.Gate,
		&r.NotifiedAt,
		&r.HandledAt,
		&r.OfficerKSPT,
		&r.OfficerPultol,
		&r.OfficerSecurity,
		&r.OfficerIT,
		&r.OfficerTech,
		&r.Location,
		&r.Chronology,
		&r.VehicleQueue,
		&r.Complaint,
		&r.ActionKSPT,
		&r.ActionIT,
		&r.ActionTech,
		&r.ActionPultol,
		&r.ActionSecurity,
		&r.FaultGateArm,
		&r.FaultReader,
		&r.FaultSystem,
		&r.FaultPower,
		&r.Status,
		&r.AlarmCount,
		&r.ResetCount,
		&r.PhotoBefore,
		&r.PhotoAfter,
	}
}

// Row serializes the record in column order.
func (r IncidentRecord) Row() []string {
	cells := r.cells()
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = *c
	}
	return row
}

// RecordFromRow maps a stored row onto a record. Missing trailing cells are empty.
func RecordFromRow(id int, row []string) IncidentRecord {
	rec := IncidentRecord{ID: id}
	for i, c := range rec.cells() {
		if i < len(row) {
			*c = row[i]
		}
	}
	return rec
}

// Field returns the value stored under a column header.
func (r IncidentRecord) Field(column string) (string, bool) {
	for i, c := range r.cells() {
		if Columns[i] == column {
			return *c, true
		}
	}
	return "", false
}

// RequiredColumns must be non-blank on submission.
var RequiredColumns = []string{ColDate, ColTime, ColShift, ColGate, ColStatus}

// Validate checks the required fields of a submitted record.
func (r IncidentRecord) Validate() error {
	var missing []string
	for _, col := range RequiredColumns {
		v, _ := r.Field(col)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidationFailed, strings.Join(missing, ", "))
	}
	return nil
}

// AlarmCountValue parses the alarm counter, 0 when blank or malformed.
func (r IncidentRecord) AlarmCountValue() int { return parseCounter(r.AlarmCount) }

// ResetCountValue parses the reset counter, 0 when blank or malformed.
func (r IncidentRecord) ResetCountValue() int { return parseCounter(r.ResetCount) }

func parseCounter(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Status is the lifecycle of an incident. The sheet stores free text; the
// tag is derived on read.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// ParseStatus derives the lifecycle tag from stored text. Blank or
// unrecognized text is pending.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "selesai", "done", "completed":
		return StatusDone
	case "proses", "dalam proses", "in progress", "in-progress":
		return StatusInProgress
	default:
		return StatusPending
	}
}

// StatusValue is the derived lifecycle tag of the record.
func (r IncidentRecord) StatusValue() Status { return ParseStatus(r.Status) }

// HasFault reports whether a fault category cell holds a real value.
func HasFault(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NoneMarker
}

// StampTimestamp sets the creation timestamp to the given server time.
func (r *IncidentRecord) StampTimestamp(now time.Time) {
	r.Timestamp = now.UTC().Format(time.RFC3339)
}

// DropdownOptionSet maps a reference-sheet header to its allowed values.
type DropdownOptionSet map[string][]string

// AuditLog represents an audit log entry.
type AuditLog struct {
	LogID     string `firestore:"log_id" json:"log_id"`
	Timestamp string `firestore:"timestamp" json:"timestamp"`
	UserID    string `firestore:"user_id" json:"user_id"`
	Action    string `firestore:"action" json:"action"`
	Details   string `firestore:"details" json:"details"`
}

// UserRole defines the access level of a user.
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleOperator UserRole = "Operator"
	RoleViewer   UserRole = "Viewer"
)

// User represents an authenticated dashboard user.
type User struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// UploadRequest is the payload of a photo upload.
type UploadRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename,omitempty"`
}

// UploadResponse returns the canonical reference of an ingested photo.
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	DriveID  string `json:"driveId,omitempty"`
	LocalURL string `json:"localUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReportResponse returns the reference to a generated PDF.
type ReportResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	LocalURL string `json:"localUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}
