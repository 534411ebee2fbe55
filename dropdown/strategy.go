package dropdown

import "strings"

// Strategy is one way of matching a form field to an option group.
type Strategy struct {
	Name  string
	Match func(s *OptionSet, field string) []string
}

var (
	// Exact looks the field up verbatim.
	Exact = Strategy{"exact", func(s *OptionSet, field string) []string {
		return s.lookup(field)
	}}

	// UpperCase looks up the upper-cased field.
	UpperCase = Strategy{"upper-case", func(s *OptionSet, field string) []string {
		return s.lookup(strings.ToUpper(field))
	}}

	// PrefixStripped drops one leading A./B./C./D. marker from the field.
	PrefixStripped = Strategy{"prefix-stripped", func(s *OptionSet, field string) []string {
		return s.lookup(classPrefix.ReplaceAllString(field, ""))
	}}

	// SynonymKeywords tries the known header spellings of the field, each
	// matched case-insensitively as a substring of the indexed keys.
	SynonymKeywords = Strategy{"synonyms", func(s *OptionSet, field string) []string {
		for _, keyword := range s.synonyms[field] {
			keyword = strings.ToUpper(keyword)
			for _, key := range s.keys {
				if strings.Contains(strings.ToUpper(key), keyword) && len(s.index[key]) > 0 {
					return s.index[key]
				}
			}
		}
		return nil
	}}

	// CaseInsensitive compares the field to every key ignoring case.
	CaseInsensitive = Strategy{"case-insensitive", func(s *OptionSet, field string) []string {
		for _, key := range s.keys {
			if strings.EqualFold(key, field) && len(s.index[key]) > 0 {
				return s.index[key]
			}
		}
		return nil
	}}

	// Containment accepts a key containing the field or contained in it.
	Containment = Strategy{"containment", func(s *OptionSet, field string) []string {
		lower := strings.ToLower(field)
		for _, key := range s.keys {
			k := strings.ToLower(key)
			if (strings.Contains(k, lower) || strings.Contains(lower, k)) && len(s.index[key]) > 0 {
				return s.index[key]
			}
		}
		return nil
	}}
)

// DefaultChain is the matching order used by Resolve.
var DefaultChain = []Strategy{
	Exact,
	UpperCase,
	PrefixStripped,
	SynonymKeywords,
	CaseInsensitive,
	Containment,
}
