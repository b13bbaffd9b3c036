package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain upper", input: "SMITH", expected: "SMITH"},
		{name: "lower case", input: "smith", expected: "SMITH"},
		{name: "umlaut folds", input: "Müller", expected: "MULLER"},
		{name: "tilde folds", input: "Ñúñez", expected: "NUNEZ"},
		{name: "punctuation and spaces removed", input: "O'Brien - Smith Jr.", expected: "OBRIENSMITHJR"},
		{name: "digits kept", input: "Smith 3rd", expected: "SMITH3RD"},
		{name: "non latin dropped", input: "李Lee", expected: "LEE"},
		{name: "only punctuation", input: " ,.- ", expected: ""},
		{name: "ligature decomposes", input: "ﬁnn", expected: "FINN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NameKey(tt.input))
		})
	}
}

func TestNameKey_Idempotent(t *testing.T) {
	inputs := []string{"", "Müller", "de la Cruz", "Zoë  Ångström", "o'neil-SMYTHE 2", "ß", "Đorđe"}
	for _, s := range inputs {
		once := NameKey(s)
		assert.Equal(t, once, NameKey(once), "input %q", s)
	}
}

func TestNameKey_AccentsMatchPlain(t *testing.T) {
	assert.Equal(t, NameKey("MULLER"), NameKey("Müller"))
	assert.Equal(t, NameKey("Jose"), NameKey("José"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "123456789", DigitsOnly("12-3456789"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "212", DigitsOnly("١2٣1x2"), "non-ASCII digits are not TIN digits")
}

func TestApply(t *testing.T) {
	assert.Equal(t, "70551", Apply(" 70-551 ", "alphanumeric"))
	assert.Equal(t, "value", Apply("value", "does_not_exist"))
	assert.Equal(t, "ABC", ApplyChain("  abc ", "trim", "uppercase"))

	fn, ok := Get("name_key")
	assert.True(t, ok)
	assert.Equal(t, "SMITH", fn("smith"))
}

func TestSplitPatientName(t *testing.T) {
	tests := []struct {
		input string
		first string
		last  string
	}{
		{input: "", first: "", last: ""},
		{input: "Smith", first: "", last: "Smith"},
		{input: "John Smith", first: "John", last: "Smith"},
		{input: "  John   Q   Smith ", first: "John", last: "Smith"},
		{input: "Smith, John", first: "John", last: "Smith"},
		{input: "Smith,John Q", first: "John Q", last: "Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first, last := SplitPatientName(tt.input)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
