// Package dropdown loads the option lists of the form select fields from the
// reference sheet and matches them to form fields whose names rarely agree
// with the sheet headers.
package dropdown

import (
	"regexp"
	"sort"
	"strings"

	"tollgate/models"
)

var (
	classPrefix   = regexp.MustCompile(`(?i)^[A-D]\.\s*`)
	faultSpelling = regexp.MustCompile(`(?i)^Jenis Gangguan\s*-\s*`)
)

// Group is one column of the reference sheet.
type Group struct {
	Header  string
	Options []string
}

// OptionSet indexes option groups under their literal, upper-cased and
// prefix-stripped headers.
type OptionSet struct {
	index    map[string][]string
	keys     []string
	synonyms Synonyms
}

// Build indexes groups in column order. For every header three keys are
// added: the literal header, its upper-cased form when not already
// present, and the header with one leading A./B./C./D. marker stripped when
// it differs and is not already present.
func Build(groups []Group, synonyms Synonyms) *OptionSet {
	set := &OptionSet{
		index:    make(map[string][]string),
		synonyms: synonyms,
	}

	for _, g := range groups {
		if g.Header == "" {
			continue
		}
		options := append([]string{}, g.Options...)
		set.add(g.Header, options, true)
		set.add(strings.ToUpper(g.Header), options, false)

		normalized := faultSpelling.ReplaceAllString(classPrefix.ReplaceAllString(g.Header, ""), "Jenis Gangguan - ")
		if normalized != g.Header {
			set.add(normalized, options, false)
		}
	}
	return set
}

// FromOptions indexes a plain option map. Headers are taken in sorted order.
func FromOptions(options models.DropdownOptionSet, synonyms Synonyms) *OptionSet {
	headers := make([]string, 0, len(options))
	for h := range options {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	groups := make([]Group, 0, len(headers))
	for _, h := range headers {
		groups = append(groups, Group{Header: h, Options: options[h]})
	}
	return Build(groups, synonyms)
}

func (s *OptionSet) add(key string, options []string, overwrite bool) {
	if _, ok := s.index[key]; ok {
		if !overwrite {
			return
		}
	} else {
		s.keys = append(s.keys, key)
	}
	s.index[key] = options
}

// Options returns every indexed key with its options.
func (s *OptionSet) Options() models.DropdownOptionSet {
	out := make(models.DropdownOptionSet, len(s.index))
	for k, v := range s.index {
		out[k] = v
	}
	return out
}

func (s *OptionSet) lookup(key string) []string {
	return s.index[key]
}

// Resolve returns the options for a form field using the default strategy
// chain. An empty result means the field has no options.
func (s *OptionSet) Resolve(field string) []string {
	return s.ResolveWith(field, DefaultChain)
}

// ResolveWith runs the strategies in order; the first non-empty match wins.
func (s *OptionSet) ResolveWith(field string, chain []Strategy) []string {
	for _, strategy := range chain {
		if options := strategy.Match(s, field); len(options) > 0 {
			return options
		}
	}
	return []string{}
}

// SelectFields are the form fields rendered as option lists.
var SelectFields = []string{
	models.ColShift,
	models.ColGate,
	models.ColOfficerKSPT,
	models.ColOfficerPultol,
	models.ColOfficerSec,
	models.ColOfficerIT,
	models.ColOfficerTech,
	models.ColLocation,
	models.ColFaultGateArm,
	models.ColFaultReader,
	models.ColFaultSystem,
	models.ColFaultPower,
	models.ColStatus,
}

// ResolveForm resolves every select field at once.
func (s *OptionSet) ResolveForm() map[string][]string {
	resolved := make(map[string][]string, len(SelectFields))
	for _, field := range SelectFields {
		resolved[field] = s.Resolve(field)
	}
	return resolved
}
