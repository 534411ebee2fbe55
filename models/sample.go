package models

import "time"

// SampleIncidents is the built-in dataset served when the sheet is not
// configured or cannot be reached.
func SampleIncidents(now time.Time) []IncidentRecord {
	stamp := func(ago time.Duration) string {
		return now.Add(-ago).UTC().Format(time.RFC3339)
	}
	return []IncidentRecord{
		{
			ID:              1,
			Timestamp:       stamp(0),
			Date:            "2024-01-15",
			Time:            "08:30",
			Shift:           "Pagi",
			Gate:            "Gardu 1",
			NotifiedAt:      "08:35",
			HandledAt:       "08:45",
			OfficerKSPT:     "Ahmad",
			OfficerPultol:   "Budi",
			OfficerSecurity: "Candra",
			OfficerIT:       "Dani",
			OfficerTech:     "Eko",
			Location:        "Gerbang Tol KM 15",
			Chronology:      "Palang pintu tol tidak dapat bergerak naik",
			VehicleQueue:    "15",
			Complaint:       "Antrian terlalu lama",
			ActionKSPT:      "Koordinasi dengan tim teknis",
			ActionIT:        "Cek sistem dan restart server",
			ActionTech:      "Perbaikan motor palang",
			ActionPultol:    "Pengaturan lalu lintas manual",
			ActionSecurity:  "Pengamanan lokasi",
			FaultGateArm:    "Motor Rusak",
			FaultReader:     NoneMarker,
			FaultSystem:     NoneMarker,
			FaultPower:      NoneMarker,
			Status:          "Selesai",
			AlarmCount:      "2",
			ResetCount:      "1",
		},
		{
			ID:              2,
			Timestamp:       stamp(time.Hour),
			Date:            "2024-01-15",
			Time:            "10:15",
			Shift:           "Pagi",
			Gate:            "Gardu 2",
			NotifiedAt:      "10:20",
			OfficerKSPT:     "Fani",
			OfficerPultol:   "Gita",
			OfficerSecurity: "Hadi",
			OfficerTech:     "Iwan",
			Location:        "Gerbang Tol KM 25",
			Chronology:      "Reader kartu tidak dapat membaca kartu",
			VehicleQueue:    "8",
			Complaint:       "Kartu tidak terbaca",
			ActionKSPT:      "Sedang dalam proses penanganan",
			ActionTech:      "Sedang menuju lokasi",
			ActionPultol:    "Membantu secara manual",
			ActionSecurity:  "Pengamanan lokasi",
			FaultGateArm:    NoneMarker,
			FaultReader:     "Reader Error",
			FaultSystem:     NoneMarker,
			FaultPower:      NoneMarker,
			Status:          "Proses",
			AlarmCount:      "1",
			ResetCount:      "0",
		},
		{
			ID:              3,
			Timestamp:       stamp(2 * time.Hour),
			Date:            "2024-01-15",
			Time:            "06:00",
			Shift:           "Malam",
			Gate:            "Gardu 3",
			NotifiedAt:      "06:05",
			OfficerKSPT:     "Joko",
			OfficerPultol:   "Krisna",
			OfficerSecurity: "Lukman",
			Location:        "Gerbang Tol KM 35",
			Chronology:      "Sistem komputer mati total",
			VehicleQueue:    "25",
			Complaint:       "Sistem tidak berfungsi",
			ActionKSPT:      "Menunggu tim IT",
			ActionPultol:    "Membuka palang manual",
			ActionSecurity:  "Pengamanan lokasi",
			FaultGateArm:    NoneMarker,
			FaultReader:     NoneMarker,
			FaultSystem:     "Server Down",
			FaultPower:      NoneMarker,
			Status:          "Pending",
			AlarmCount:      "3",
			ResetCount:      "0",
		},
	}
}

// SampleDropdowns is the demo reference table.
func SampleDropdowns() DropdownOptionSet {
	return DropdownOptionSet{
		"Shift Kejadian":                    {"Pagi", "Siang", "Malam"},
		"Gardu Kejadian":                    {"Gardu 1", "Gardu 2", "Gardu 3", "Gardu 4", "Gardu 5"},
		"Lokasi Kejadian":                   {"Gerbang Tol KM 15", "Gerbang Tol KM 25", "Gerbang Tol KM 35", "Gerbang Tol KM 45"},
		"Status Tindakan":                   {"Pending", "Proses", "Selesai"},
		"Jenis Gangguan - Palang":           {"Motor Rusak", "Sensor Error", "Palang Patah", "Lainnya"},
		"Jenis Gangguan Reader / Periferal": {"Reader Error", "Printer Rusak", "Scanner Error", "Lainnya"},
		"Jenis Gangguan - Sistim":           {"Server Down", "Network Error", "Database Error", "Lainnya"},
		"Jenis Gangguan - Kelistrikan":      {"Listrik Mati", "UPS Error", "Kabel Putus", "Lainnya"},
	}
}
