// Package recap derives summary statistics from the incident listing. All
// functions are pure: they only read the records they are given.
package recap

import (
	"math"
	"sort"
	"strings"
	"time"

	"tollgate/models"
)

// MonthNames are the month labels used in recap views and export names.
var MonthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// UnknownValue replaces a blank grouping value.
const UnknownValue = "Tidak Diketahui"

// Period selects the incidents of one month, or of a whole year when Month
// is 0.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	return p.Month == 0 || int(t.Month()) == p.Month
}

// Label is a human readable name such as "Januari 2024" or "2024".
func (p Period) Label() string {
	if p.Month >= 1 && p.Month <= 12 {
		return MonthNames[p.Month-1] + " " + itoa(p.Year)
	}
	return itoa(p.Year)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

// ParseDate reads an incident date. Slash and dash dates with the year last
// are day-first.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter returns the records whose incident date falls in p. Records
// without a readable date are dropped.
func Filter(records []models.IncidentRecord, p Period) []models.IncidentRecord {
	var out []models.IncidentRecord
	for _, rec := range records {
		if t, ok := ParseDate(rec.Date); ok && p.Contains(t) {
			out = append(out, rec)
		}
	}
	return out
}

// Shift is a normalized shift bucket.
type Shift string

const (
	ShiftI       Shift = "I"
	ShiftII      Shift = "II"
	ShiftIII     Shift = "III"
	ShiftUnknown Shift = ""
)

var shiftPatterns = []struct {
	shift    Shift
	exact    []string
	contains []string
}{
	// Longest numeral first so "iii (" is never read as shift I.
	{ShiftIII, []string{"iii", "3"}, []string{"iii (", "iii(", "tiga"}},
	{ShiftII, []string{"ii", "2"}, []string{"ii (", "ii(", "dua"}},
	{ShiftI, []string{"i", "1"}, []string{"i (", "i(", "satu"}},
}

// ClassifyShift maps free-text shift labels such as "I ( satu )" or
// "III (Tiga)" onto one bucket.
func ClassifyShift(s string) Shift {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ShiftUnknown
	}
	for _, p := range shiftPatterns {
		for _, e := range p.exact {
			if s == e {
				return p.shift
			}
		}
		for _, c := range p.contains {
			if strings.Contains(s, c) {
				return p.shift
			}
		}
	}
	return ShiftUnknown
}

// Count is the number of incidents sharing one value.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FaultCounts counts incidents with a value in each fault category.
type FaultCounts struct {
	GateArm int `json:"gateArm"`
	Reader  int `json:"reader"`
	System  int `json:"system"`
	Power   int `json:"power"`
}

// ShiftCounts counts incidents per shift.
type ShiftCounts struct {
	I            int `json:"I"`
	II           int `json:"II"`
	III          int `json:"III"`
	Unclassified int `json:"unclassified"`
}

// Stats is the recap of a set of incidents.
type Stats struct {
	Total          int         `json:"total"`
	Done           int         `json:"done"`
	InProgress     int         `json:"inProgress"`
	Pending        int         `json:"pending"`
	Faults         FaultCounts `json:"faults"`
	Shifts         ShiftCounts `json:"shifts"`
	ByGate         []Count     `json:"byGate"`
	ByLocation     []Count     `json:"byLocation"`
	ByCoordinator  []Count     `json:"byCoordinator"`
	ByTollOfficer  []Count     `json:"byTollOfficer"`
	Alarms         int         `json:"alarms"`
	Resets         int         `json:"resets"`
	CompletionRate int         `json:"completionRate"`
}

// Compute aggregates records.
func Compute(records []models.IncidentRecord) Stats {
	stats := Stats{Total: len(records)}

	gates := map[string]int{}
	locations := map[string]int{}
	coordinators := map[string]int{}
	officers := map[string]int{}

	for _, rec := range records {
		switch rec.StatusValue() {
		case models.StatusDone:
			stats.Done++
		case models.StatusInProgress:
			stats.InProgress++
		default:
			stats.Pending++
		}

		if models.HasFault(rec.FaultGateArm) {
			stats.Faults.GateArm++
		}
		if models.HasFault(rec.FaultReader) {
			stats.Faults.Reader++
		}
		if models.HasFault(rec.FaultSystem) {
			stats.Faults.System++
		}
		if models.HasFault(rec.FaultPower) {
			stats.Faults.Power++
		}

		switch ClassifyShift(rec.Shift) {
		case ShiftI:
			stats.Shifts.I++
		case ShiftII:
			stats.Shifts.II++
		case ShiftIII:
			stats.Shifts.III++
		default:
			stats.Shifts.Unclassified++
		}

		stats.Alarms += rec.AlarmCountValue()
		stats.Resets += rec.ResetCountValue()

		tally(gates, rec.Gate)
		tally(locations, rec.Location)
		tally(coordinators, rec.OfficerKSPT)
		tally(officers, rec.OfficerPultol)
	}

	stats.ByGate = sorted(gates)
	stats.ByLocation = sorted(locations)
	stats.ByCoordinator = sorted(coordinators)
	stats.ByTollOfficer = sorted(officers)
	stats.CompletionRate = CompletionRate(stats.Done, stats.Total)
	return stats
}

// CompletionRate is done/total as a rounded percentage, 0 when total is 0.
func CompletionRate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func tally(m map[string]int, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = UnknownValue
	}
	if value == models.NoneMarker {
		return
	}
	m[value]++
}

func sorted(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for v, n := range m {
		counts = append(counts, Count{Value: v, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// MonthTotal is one bucket of a yearly breakdown.
type MonthTotal struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Total int    `json:"total"`
	Done  int    `json:"done"`
}

// MonthlyBreakdown splits the incidents of year into 12 monthly buckets.
func MonthlyBreakdown(records []models.IncidentRecord, year int) []MonthTotal {
	months := make([]MonthTotal, 12)
	for i := range months {
		months[i] = MonthTotal{Month: i + 1, Label: MonthNames[i]}
	}
	for _, rec := range records {
		t, ok := ParseDate(rec.Date)
		if !ok || t.Year() != year {
			continue
		}
		m := &months[int(t.Month())-1]
		m.Total++
		if rec.StatusValue() == models.StatusDone {
			m.Done++
		}
	}
	return months
}

// Years lists the distinct incident years plus the current one, newest
// first.
func Years(records []models.IncidentRecord, now time.Time) []int {
	seen := map[int]bool{now.Year(): true}
	for _, rec := range records {
		if t, ok := ParseDate(rec.Date); ok {
			seen[t.Year()] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
