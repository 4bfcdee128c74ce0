// Package catalog loads the per-destination activity catalog from YAML.
// Pure loader: bytes or file path in, domain activity pools out.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

//go:embed default.yaml
var defaultCatalog []byte

type fileFormat struct {
	Destinations map[string]destinationDoc `yaml:"destinations"`
}

type destinationDoc struct {
	Name           string                        `yaml:"name"`
	BaseCostPerDay float64                       `yaml:"base_cost_per_day"`
	Activities     map[domain.Category][]itemDoc `yaml:"activities"`
}

type itemDoc struct {
	Name        string  `yaml:"name"`
	Location    string  `yaml:"location"`
	Description string  `yaml:"description"`
	Duration    string  `yaml:"duration"`
	Cost        float64 `yaml:"cost"`
}

// Stats holds catalog statistics for logging.
type Stats struct {
	Destinations int
	Activities   int
}

// Catalog resolves destinations to activity pools.
type Catalog struct {
	pools    map[string]*domain.ActivityPool
	fallback string
}

// Load reads a catalog from path, or the built-in catalog when path is empty.
func Load(path, fallback string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
	}
	return Parse(data, fallback)
}

// Parse decodes catalog YAML. fallback names the destination served for
// unknown lookups and must exist in the catalog.
func Parse(data []byte, fallback string) (*Catalog, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(doc.Destinations) == 0 {
		return nil, fmt.Errorf("catalog: no destinations")
	}

	c := &Catalog{
		pools:    make(map[string]*domain.ActivityPool, len(doc.Destinations)),
		fallback: domain.CatalogKey(fallback),
	}
	for key, d := range doc.Destinations {
		if d.BaseCostPerDay < 0 {
			return nil, fmt.Errorf("catalog: %s: negative base_cost_per_day", key)
		}
		pool := &domain.ActivityPool{
			Destination:    d.Name,
			BaseCostPerDay: d.BaseCostPerDay,
			Items:          make(map[domain.Category][]domain.PoolItem, len(d.Activities)),
		}
		if pool.Destination == "" {
			pool.Destination = key
		}
		for cat, items := range d.Activities {
			if !cat.IsValid() {
				return nil, fmt.Errorf("catalog: %s: unknown category %q", key, cat)
			}
			for _, it := range items {
				if it.Name == "" {
					return nil, fmt.Errorf("catalog: %s/%s: activity without name", key, cat)
				}
				pool.Items[cat] = append(pool.Items[cat], domain.PoolItem{
					Name:        it.Name,
					Location:    it.Location,
					Description: it.Description,
					Duration:    it.Duration,
					Cost:        it.Cost,
				})
			}
		}
		c.pools[domain.CatalogKey(key)] = pool
	}

	if _, ok := c.pools[c.fallback]; !ok {
		return nil, fmt.Errorf("catalog: fallback destination %q not in catalog", fallback)
	}
	return c, nil
}

// Pool returns the activity pool for destination. Unknown destinations get
// the fallback pool and found=false.
func (c *Catalog) Pool(destination string) (pool *domain.ActivityPool, found bool) {
	if p, ok := c.pools[domain.CatalogKey(destination)]; ok {
		return p, true
	}
	return c.pools[c.fallback], false
}

// Stats counts destinations and activities.
func (c *Catalog) Stats() Stats {
	s := Stats{Destinations: len(c.pools)}
	for _, p := range c.pools {
		for _, items := range p.Items {
			s.Activities += len(items)
		}
	}
	return s
}
