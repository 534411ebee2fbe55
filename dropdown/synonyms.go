package dropdown

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tollgate/models"
)

// Synonyms maps a form field to header spellings seen in reference sheets.
type Synonyms map[string][]string

// DefaultSynonyms returns the built-in synonym table.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		models.ColFaultGateArm:  {"Jenis Gangguan Palang", "Gangguan Palang"},
		models.ColFaultReader:   {"Jenis Gangguan Reader / Periferal", "Jenis Gangguan Reader", "Gangguan Reader"},
		models.ColFaultSystem:   {"Jenis Gangguan - Sistim", "Gangguan Sistem", "Gangguan Sistim"},
		models.ColFaultPower:    {"Gangguan Kelistrikan", "Jenis Gangguan - Kelistrikan"},
		models.ColOfficerKSPT:   {"KSPT"},
		models.ColOfficerPultol: {"PULTOL", "NAMA PULTOL"},
		models.ColOfficerIT:     {"NAMA IT"},
		models.ColOfficerTech:   {"NAMA TEKNISI", "TEKNISI"},
		models.ColOfficerSec:    {"SECURITY"},
	}
}

// LoadSynonyms reads a YAML file of field: [spellings] and lays it over the
// built-in table. A field present in the file replaces the built-in entry.
func LoadSynonyms(path string) (Synonyms, error) {
	synonyms := DefaultSynonyms()
	if path == "" {
		return synonyms, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file: %w", err)
	}

	var overrides map[string][]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms file %s: %w", path, err)
	}
	for field, spellings := range overrides {
		synonyms[field] = spellings
	}
	return synonyms, nil
}
