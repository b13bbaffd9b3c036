// Package rates maintains negotiated PPO rates for imaging procedures.
package rates

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Gobusters/ectolinq"
	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

// Category is a named group of procedure codes.
type Category struct {
	Name  string   `yaml:"name"`
	Codes []string `yaml:"codes"`
}

// Taxonomy maps procedure codes to imaging categories. It is immutable once
// built; accessors return copies.
type Taxonomy struct {
	categories []Category
	byCode     map[string]string
}

// NewTaxonomy builds a taxonomy from categories in declaration order. A code
// listed under more than one category belongs to the first.
func NewTaxonomy(categories ...Category) Taxonomy {
	t := Taxonomy{
		categories: make([]Category, 0, len(categories)),
		byCode:     make(map[string]string),
	}
	for _, c := range categories {
		t.categories = append(t.categories, Category{Name: c.Name, Codes: slices.Clone(c.Codes)})
		for _, code := range c.Codes {
			if _, ok := t.byCode[code]; !ok {
				t.byCode[code] = c.Name
			}
		}
	}
	return t
}

// DefaultTaxonomy returns the imaging categories used for PPO rate sheets.
func DefaultTaxonomy() Taxonomy {
	return NewTaxonomy(
		Category{Name: "MRI w/o", Codes: []string{"70551", "72141", "73721", "70540", "72195", "72146", "73221", "73218"}},
		Category{Name: "MRI w/", Codes: []string{"70552", "72142", "73722", "70542", "72196", "72147", "73222", "73219"}},
		Category{Name: "MRI w/&w/o", Codes: []string{"70553", "72156", "73723", "70543", "72197", "72157", "73223", "73220"}},
		Category{Name: "CT w/o", Codes: []string{"74176", "74150", "72125", "70450", "73700", "72131", "70486", "70480", "72192", "70490", "72128", "71250", "73200"}},
		Category{Name: "CT w/", Codes: []string{"74177", "74160", "72126", "70460", "73701", "72132", "70487", "70481", "72193", "70491", "72129", "71260", "73201"}},
		Category{Name: "CT w/&w/o", Codes: []string{"74178", "74170", "72127", "70470", "73702", "72133", "70488", "70482", "72194", "70492", "72130", "71270", "73202"}},
		Category{Name: "Xray", Codes: []string{"74010", "74000", "74020", "76080", "73050", "73600", "73610", "77072", "77073", "73650", "72040", "72050", "71010", "71021", "71023", "71022", "71020", "71030", "71034", "71035"}},
	)
}

// Classify returns the category of a procedure code, or
// models.UncategorizedCategory.
func (t Taxonomy) Classify(code string) string {
	if name, ok := t.byCode[code]; ok {
		return name
	}
	return models.UncategorizedCategory
}

// Categories returns category names in declaration order.
func (t Taxonomy) Categories() []string {
	return ectolinq.Map(t.categories, func(c Category) string { return c.Name })
}

// CodesIn returns the codes of a category, or nil if it does not exist.
func (t Taxonomy) CodesIn(category string) []string {
	for _, c := range t.categories {
		if c.Name == category {
			return slices.Clone(c.Codes)
		}
	}
	return nil
}

// Has reports whether category exists.
func (t Taxonomy) Has(category string) bool {
	return slices.ContainsFunc(t.categories, func(c Category) bool { return c.Name == category })
}

// ParseTaxonomy reads a taxonomy from YAML:
//
//	categories:
//	  - name: MRI w/o
//	    codes: ["70551", "72141"]
//
// Codes are reduced to letters and digits. Category names must be unique and
// non-empty.
func ParseTaxonomy(data []byte) (Taxonomy, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if len(doc.Categories) == 0 {
		return Taxonomy{}, fmt.Errorf("taxonomy has no categories")
	}

	seen := make([]string, 0, len(doc.Categories))
	for i, c := range doc.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return Taxonomy{}, fmt.Errorf("taxonomy category %d has no name", i+1)
		}
		if ectolinq.Contains(seen, name) {
			return Taxonomy{}, fmt.Errorf("taxonomy category %q is listed twice", name)
		}
		seen = append(seen, name)

		doc.Categories[i].Name = name
		doc.Categories[i].Codes = ectolinq.Filter(ectolinq.Map(c.Codes, normalizers.Alphanumeric), func(code string) bool {
			return code != ""
		})
	}
	return NewTaxonomy(doc.Categories...), nil
}

// LoadTaxonomy reads a YAML taxonomy file. See ParseTaxonomy.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}
