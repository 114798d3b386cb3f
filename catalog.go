package spoke

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalog struct {
	family map[string]string // code -> family
	codes  []string          // sorted
}

var caseCatalog = mustLoadCatalog(catalogYAML)

func mustLoadCatalog(data []byte) catalog {
	c, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

func loadCatalog(data []byte) (catalog, error) {
	var families map[string][]string
	if err := yaml.Unmarshal(data, &families); err != nil {
		return catalog{}, fmt.Errorf("spoke: case catalog: %w", err)
	}
	c := catalog{family: map[string]string{}}
	for fam, codes := range families {
		for _, code := range codes {
			if prev, dup := c.family[code]; dup {
				return catalog{}, fmt.Errorf("spoke: case catalog: %q listed under %s and %s", code, prev, fam)
			}
			c.family[code] = fam
			c.codes = append(c.codes, code)
		}
	}
	if len(c.codes) == 0 {
		return catalog{}, fmt.Errorf("spoke: case catalog is empty")
	}
	sort.Strings(c.codes)
	return c, nil
}

// CaseTypes lists every accepted Case.CaseType code, sorted.
func CaseTypes() []string { return append([]string(nil), caseCatalog.codes...) }

// CaseFamily returns the product family of a CaseType code.
func CaseFamily(code string) (string, bool) {
	f, ok := caseCatalog.family[code]
	return f, ok
}
