package dropdown

import (
	"context"
	"fmt"
	"log"

	"tollgate/db"
)

// referenceWidth covers columns A:Z of the reference sheet.
const referenceWidth = 26

// Loader reads option groups from the reference sheet. The header row holds
// the group names; every later row contributes one option per column.
type Loader struct {
	store    db.RowStore
	sheet    string
	synonyms Synonyms
}

func NewLoader(store db.RowStore, sheet string, synonyms Synonyms) *Loader {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Loader{store: store, sheet: sheet, synonyms: synonyms}
}

// Synonyms returns the synonym table used for matching.
func (l *Loader) Synonyms() Synonyms {
	return l.synonyms
}

func (l *Loader) Load(ctx context.Context) (*OptionSet, error) {
	rows, err := l.store.ReadRows(ctx, l.sheet, 1, referenceWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to read dropdown options: %w", err)
	}

	set := Build(groupsFromRows(rows), l.synonyms)
	log.Printf("📋 Loaded dropdown options: %d keys", len(set.keys))
	return set, nil
}

func groupsFromRows(rows [][]string) []Group {
	if len(rows) == 0 {
		return nil
	}

	var groups []Group
	for col, header := range rows[0] {
		if header == "" {
			continue
		}
		g := Group{Header: header}
		for _, row := range rows[1:] {
			if col < len(row) && row[col] != "" {
				g.Options = append(g.Options, row[col])
			}
		}
		groups = append(groups, g)
	}
	return groups
}
