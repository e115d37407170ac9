package vehicles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	DefaultTTL       = 5 * time.Minute
	minQueryLength   = 2
	maxSearchResults = 20
)

type Model struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CyrillicName string `json:"cyrillic_name"`
}

type Brand struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CyrillicName string  `json:"cyrillic_name"`
	Models       []Model `json:"models"`
}

type catalogFile struct {
	Data []Brand `json:"data"`
}

type BrandSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CyrillicName string `json:"cyrillic_name"`
}

type ModelSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CyrillicName string `json:"cyrillic_name"`
	FullName     string `json:"full_name"`
}

type SearchResult struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog serves the brand/model list from a JSON file and rereads it once
// the cached copy is older than ttl.
type Catalog struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	brands   []Brand
	loadedAt time.Time
}

func NewCatalog(path string, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

func (c *Catalog) load() ([]Brand, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.brands != nil && now.Sub(c.loadedAt) < c.ttl {
		return c.brands, nil
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read vehicle catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse vehicle catalog: %w", err)
	}
	if file.Data == nil {
		file.Data = []Brand{}
	}

	c.brands = file.Data
	c.loadedAt = now
	return c.brands, nil
}

func orName(cyrillic, name string) string {
	if cyrillic == "" {
		return name
	}
	return cyrillic
}

func (c *Catalog) Brands() ([]BrandSummary, error) {
	brands, err := c.load()
	if err != nil {
		return nil, err
	}

	result := make([]BrandSummary, 0, len(brands))
	for _, b := range brands {
		result = append(result, BrandSummary{
			ID:           b.ID,
			Name:         b.Name,
			CyrillicName: orName(b.CyrillicName, b.Name),
		})
	}
	return result, nil
}

// Models lists the models of a brand. Brand ids are stored uppercase.
func (c *Catalog) Models(brandID string) ([]ModelSummary, error) {
	brands, err := c.load()
	if err != nil {
		return nil, err
	}

	id := strings.ToUpper(brandID)
	result := []ModelSummary{}
	for _, b := range brands {
		if b.ID != id {
			continue
		}
		for _, m := range b.Models {
			result = append(result, ModelSummary{
				ID:           m.ID,
				Name:         m.Name,
				CyrillicName: orName(m.CyrillicName, m.Name),
				FullName:     b.Name + " " + m.Name,
			})
		}
		break
	}
	return result, nil
}

// Search matches brands and models by Latin name, Cyrillic name or
// "brand model". Queries shorter than two characters return nothing.
func (c *Catalog) Search(query string) ([]SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minQueryLength {
		return []SearchResult{}, nil
	}

	brands, err := c.load()
	if err != nil {
		return nil, err
	}

	results := []SearchResult{}
	for _, b := range brands {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.CyrillicName), q) {
			results = append(results, SearchResult{
				Type:  "brand",
				Value: b.Name,
				Label: fmt.Sprintf("%s (%s)", b.Name, orName(b.CyrillicName, b.Name)),
			})
		}

		for _, m := range b.Models {
			full := b.Name + " " + m.Name
			if strings.Contains(strings.ToLower(m.Name), q) ||
				strings.Contains(strings.ToLower(m.CyrillicName), q) ||
				strings.Contains(strings.ToLower(full), q) {
				results = append(results, SearchResult{
					Type:  "model",
					Value: full,
					Label: fmt.Sprintf("%s (%s)", full, orName(m.CyrillicName, m.Name)),
				})
			}
		}
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}
