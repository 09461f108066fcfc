package domain

import (
	"regexp"
	"strings"
)

var (
	// postalCodeRe matches a CEP anchored at the end of the remainder:
	// "66083-030", "66083 030" or "66083030".
	postalCodeRe = regexp.MustCompile(`(\d{5}[-\s]?\d{3})$`)

	// stateCodeRe matches a trailing two-letter UF preceded by a run of
	// separators, e.g. "Belém - PA" or "Ananindeua, PA".
	stateCodeRe = regexp.MustCompile(`[\s,-]+([A-Z]{2})$`)
)

// countryLiterals are compared case-insensitively against the last
// len(literal) bytes of the address. Both literals are six ASCII letters.
var countryLiterals = []string{"brazil", "brasil"}

// knownCities is checked in order when the remainder has no comma left to
// split the municipality on. Entries hold the canonical casing.
var knownCities = []string{"Belém", "Ananindeua", "Marituba", "Outeiro", "Icoaraci", "Mosqueiro"}

const (
	stateLongForm = "State of Pará"
	stateLongCode = "PA"
)

// peeler consumes one component from the tail of the remainder. ok is false
// when the stage did not match, in which case remainder is returned unchanged.
type peeler func(rest string) (value, remainder string, ok bool)

type stage struct {
	field Field
	peel  peeler
}

// stages run in order, most general component first. Whatever is left after
// the last stage becomes the street.
var stages = []stage{
	{field: FieldCountry, peel: peelCountry},
	{field: FieldPostalCode, peel: peelPostalCode},
	{field: FieldState, peel: peelState},
	{field: FieldMunicipality, peel: peelMunicipality},
	{field: FieldNeighborhood, peel: peelNeighborhood},
	{field: FieldHouseNumber, peel: peelHouseNumber},
}

// IsUnparseable reports whether raw is one of the "no geocode result" markers
// produced upstream, or carries no text at all.
func IsUnparseable(raw string) bool {
	return strings.TrimSpace(raw) == "" ||
		raw == SentinelNoAddress ||
		strings.HasPrefix(raw, sentinelErrorPrefix) ||
		strings.Contains(raw, sentinelMockMarker)
}

// Decompose splits a single-line formatted address into its components by
// peeling known suffixes off the tail. It never fails: components that cannot
// be isolated are left nil, and sentinel input yields an empty ParsedAddress.
func Decompose(raw string) ParsedAddress {
	var out ParsedAddress
	if IsUnparseable(raw) {
		return out
	}

	rest := strings.TrimSpace(raw)
	for _, s := range stages {
		value, remainder, ok := s.peel(rest)
		if !ok {
			continue
		}
		out.set(s.field, value)
		rest = remainder
	}
	out.set(FieldStreet, rest)
	return out
}

// DecomposeValue is Decompose for loosely typed input such as a decoded JSON
// value or a spreadsheet cell. Anything that is not a string is a sentinel.
func DecomposeValue(v any) ParsedAddress {
	switch s := v.(type) {
	case string:
		return Decompose(s)
	case *string:
		if s == nil {
			return ParsedAddress{}
		}
		return Decompose(*s)
	default:
		return ParsedAddress{}
	}
}

func peelCountry(rest string) (string, string, bool) {
	for _, lit := range countryLiterals {
		if !hasSuffixFold(rest, lit) {
			continue
		}
		cut := len(rest) - len(lit)
		return rest[cut:], trimCommas(rest[:cut]), true
	}
	return "", rest, false
}

func peelPostalCode(rest string) (string, string, bool) {
	m := postalCodeRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return "", rest, false
	}
	return rest[m[2]:m[3]], trimSeparators(rest[:m[0]]), true
}

func peelState(rest string) (string, string, bool) {
	if m := stateCodeRe.FindStringSubmatchIndex(rest); m != nil {
		return rest[m[2]:m[3]], strings.TrimSpace(rest[:m[0]]), true
	}
	if strings.Contains(rest, stateLongForm) {
		return stateLongCode, trimSeparators(strings.ReplaceAll(rest, stateLongForm, "")), true
	}
	return "", rest, false
}

func peelMunicipality(rest string) (string, string, bool) {
	if before, after, ok := cutLast(rest, ","); ok {
		return after, before, true
	}
	for _, city := range knownCities {
		if hasSuffixFold(rest, city) {
			return city, trimSeparators(rest[:len(rest)-len(city)]), true
		}
	}
	return "", rest, false
}

func peelNeighborhood(rest string) (string, string, bool) {
	before, after, ok := cutLast(rest, " - ")
	return after, before, ok
}

func peelHouseNumber(rest string) (string, string, bool) {
	before, after, ok := cutLast(rest, ",")
	return after, before, ok
}

// cutLast splits s around the last occurrence of sep, trimming both halves.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
}

// hasSuffixFold is a case-insensitive strings.HasSuffix. It compares the last
// len(suffix) bytes, so a tail that splits a multi-byte rune never matches.
func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

func trimCommas(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ",")
	return strings.TrimSpace(s)
}

// trimSeparators drops the whitespace, commas and hyphens left dangling at
// either end once a component has been cut out.
func trimSeparators(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ",")
	s = strings.Trim(s, "-")
	return strings.TrimSpace(s)
}
