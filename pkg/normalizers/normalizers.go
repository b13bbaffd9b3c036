// Package normalizers provides string normalization for comparing names and
// identifiers pulled from OCR output against the order store.
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = map[string]Normalizer{
	"trim":         Trim,
	"uppercase":    Uppercase,
	"digits_only":  DigitsOnly,
	"alphanumeric": Alphanumeric,
	"name_key":     NameKey,
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value. Unknown names leave the value
// untouched.
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Uppercase converts string to uppercase
func Uppercase(s string) string {
	return strings.ToUpper(s)
}

// DigitsOnly keeps only ASCII digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Alphanumeric keeps only alphanumeric characters
func Alphanumeric(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NameKey reduces a name fragment to the form used for fuzzy comparison:
// accents are folded to their ASCII base letter, anything else outside ASCII
// is dropped, and only upper-cased letters and digits remain.
//
//	NameKey("Müller-Ñúñez Jr.") == "MULLERNUNEZJR"
func NameKey(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z':
			result.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result.WriteRune(r)
		}
	}
	return result.String()
}

// SplitPatientName splits a free-form patient name into first and last name.
// "Last, First" and "First [Middle...] Last" are recognised; a single token is
// taken as the last name. Either part may be empty.
func SplitPatientName(name string) (first, last string) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ""
	}

	if before, after, ok := strings.Cut(name, ","); ok {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], parts[len(parts)-1]
}
