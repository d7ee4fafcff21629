package analysis

import (
	"fmt"
	"strings"
)

// Catalog is the read-only set of known drugs. Ids are normalized once on
// construction so every lookup is case-insensitive.
type Catalog struct {
	drugs []Drug
	byID  map[string]int
}

// NormalizeID returns the canonical form of a drug id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func NewCatalog(drugs []Drug) (*Catalog, error) {
	c := &Catalog{
		drugs: make([]Drug, 0, len(drugs)),
		byID:  make(map[string]int, len(drugs)),
	}
	for i, d := range drugs {
		id := NormalizeID(d.ID)
		if id == "" {
			return nil, fmt.Errorf("drug %d: id is required", i)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("drug %q: name is required", id)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("drug %q: duplicate id", id)
		}
		d.ID = id
		d.Classes = append([]string(nil), d.Classes...)
		c.byID[id] = len(c.drugs)
		c.drugs = append(c.drugs, d)
	}
	return c, nil
}

// All returns every drug in catalog order.
func (c *Catalog) All() []Drug {
	out := make([]Drug, len(c.drugs))
	for i, d := range c.drugs {
		out[i] = d.clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.drugs)
}

func (c *Catalog) Get(id string) (Drug, bool) {
	idx, ok := c.byID[NormalizeID(id)]
	if !ok {
		return Drug{}, false
	}
	return c.drugs[idx].clone(), true
}

// Suggest returns drugs whose name, generic name or brand name contains
// query, ignoring case. An empty query matches every drug.
func (c *Catalog) Suggest(query string) []Drug {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Drug{}
	for _, d := range c.drugs {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			(d.GenericName != "" && strings.Contains(strings.ToLower(d.GenericName), q)) ||
			(d.BrandName != "" && strings.Contains(strings.ToLower(d.BrandName), q)) {
			out = append(out, d.clone())
		}
	}
	return out
}

func (d Drug) clone() Drug {
	d.Classes = append([]string(nil), d.Classes...)
	return d
}
