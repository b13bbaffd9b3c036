package rates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fennel/pkg/models"
)

func TestTaxonomy_Classify(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	tests := []struct {
		code string
		want string
	}{
		{code: "70551", want: "MRI w/o"},
		{code: "70552", want: "MRI w/"},
		{code: "70553", want: "MRI w/&w/o"},
		{code: "74176", want: "CT w/o"},
		{code: "71260", want: "CT w/"},
		{code: "73202", want: "CT w/&w/o"},
		{code: "71020", want: "Xray"},
		{code: "99999", want: models.UncategorizedCategory},
		{code: "", want: models.UncategorizedCategory},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, taxonomy.Classify(tt.code))
		})
	}
}

func TestTaxonomy_Categories(t *testing.T) {
	assert.Equal(t,
		[]string{"MRI w/o", "MRI w/", "MRI w/&w/o", "CT w/o", "CT w/", "CT w/&w/o", "Xray"},
		DefaultTaxonomy().Categories(),
	)
}

func TestTaxonomy_CodesIn(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	t.Run("known category", func(t *testing.T) {
		codes := taxonomy.CodesIn("MRI w/o")
		assert.Equal(t, []string{"70551", "72141", "73721", "70540", "72195", "72146", "73221", "73218"}, codes)
	})

	t.Run("unknown category", func(t *testing.T) {
		assert.Nil(t, taxonomy.CodesIn("PET"))
		assert.False(t, taxonomy.Has("PET"))
	})

	t.Run("returns a copy", func(t *testing.T) {
		codes := taxonomy.CodesIn("Xray")
		codes[0] = "00000"
		assert.Equal(t, "74010", taxonomy.CodesIn("Xray")[0])
	})

	t.Run("every code classifies back to its category", func(t *testing.T) {
		for _, category := range taxonomy.Categories() {
			for _, code := range taxonomy.CodesIn(category) {
				assert.Equal(t, category, taxonomy.Classify(code), code)
			}
		}
	})
}

func TestNewTaxonomy_FirstCategoryWins(t *testing.T) {
	taxonomy := NewTaxonomy(
		Category{Name: "A", Codes: []string{"1", "2"}},
		Category{Name: "B", Codes: []string{"2", "3"}},
	)

	assert.Equal(t, "A", taxonomy.Classify("2"))
	assert.Equal(t, "B", taxonomy.Classify("3"))
}

func TestParseTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, taxonomy Taxonomy)
	}{
		{
			name: "categories in file order",
			yaml: `
categories:
  - name: PET
    codes: ["78815", "78816"]
  - name: " Ultrasound "
    codes: [76700, "76-705", ""]
`,
			check: func(t *testing.T, taxonomy Taxonomy) {
				assert.Equal(t, []string{"PET", "Ultrasound"}, taxonomy.Categories())
				assert.Equal(t, []string{"76700", "76705"}, taxonomy.CodesIn("Ultrasound"))
				assert.Equal(t, "PET", taxonomy.Classify("78816"))
				assert.Equal(t, models.UncategorizedCategory, taxonomy.Classify("70551"))
			},
		},
		{name: "malformed", yaml: "categories: [", wantErr: "failed to parse taxonomy"},
		{name: "no categories", yaml: "categories: []", wantErr: "no categories"},
		{name: "blank name", yaml: "categories:\n  - name: \" \"\n    codes: [\"1\"]", wantErr: "category 1 has no name"},
		{
			name:    "repeated name",
			yaml:    "categories:\n  - name: PET\n  - name: PET",
			wantErr: `"PET" is listed twice`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxonomy, err := ParseTaxonomy([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, taxonomy)
		})
	}
}

func TestLoadTaxonomy(t *testing.T) {
	t.Run("round trips the default categories", func(t *testing.T) {
		def := DefaultTaxonomy()
		var b strings.Builder
		b.WriteString("categories:\n")
		for _, name := range def.Categories() {
			fmt.Fprintf(&b, "  - name: %q\n    codes: [%s]\n", name, strings.Join(def.CodesIn(name), ", "))
		}
		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

		loaded, err := LoadTaxonomy(path)
		require.NoError(t, err)
		assert.Equal(t, def.Categories(), loaded.Categories())
		for _, name := range def.Categories() {
			assert.Equal(t, def.CodesIn(name), loaded.CodesIn(name), name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
