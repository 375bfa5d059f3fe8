package folio

import (
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dvh-sh/folio/content"
	"github.com/dvh-sh/folio/views"
)

// softwareCategory is one entry of the embedded catalogue.
type softwareCategory struct {
	Category string             `yaml:"category"`
	Items    []content.Software `yaml:"items"`
}

// defaultOrder lists the categories shown first when the catalogue comes
// from portfolio.json, whose object keys carry no order.
var defaultOrder = []string{"Essentials", "General", "Utilities", "Creatives"}

// loadSoftware reads the YAML software catalogue at name in fsys.
func loadSoftware(fsys fs.FS, name string) ([]views.SoftwareGroup, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var cats []softwareCategory
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	groups := make([]views.SoftwareGroup, 0, len(cats))
	for _, c := range cats {
		groups = append(groups, views.SoftwareGroup{ID: Slugify(c.Category), Name: c.Category, Items: c.Items})
	}
	return groups, nil
}

// softwareGroups orders a category map: categories named in order first,
// then the rest alphabetically. A nil order uses defaultOrder.
func softwareGroups(m map[string][]content.Software, order []string) []views.SoftwareGroup {
	if order == nil {
		order = defaultOrder
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	groups := make([]views.SoftwareGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, views.SoftwareGroup{ID: Slugify(name), Name: name, Items: m[name]})
	}
	return groups
}
