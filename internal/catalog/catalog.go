package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalogue.yaml
var defaultCatalogue []byte

// System is a detection-technology category nested under a Brand
type System struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

// Brand is a top-level manufacturer grouping in the catalogue
type Brand struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Color       string   `yaml:"color" json:"color"`
	Logo        string   `yaml:"logo" json:"logo"`
	Systems     []System `yaml:"systems" json:"systems"`
}

// Spec is a single specification row of a product
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Specs keeps specification rows in the order they were authored
type Specs []Spec

// UnmarshalYAML decodes a YAML mapping into rows without losing key order
func (s *Specs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("specifications: expected mapping at line %d, got kind %d", value.Line, value.Kind)
	}

	rows := make(Specs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name, val string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("specifications: invalid key at line %d: %w", value.Content[i].Line, err)
		}
		if err := value.Content[i+1].Decode(&val); err != nil {
			return fmt.Errorf("specifications: invalid value for %q: %w", name, err)
		}
		rows = append(rows, Spec{Name: name, Value: val})
	}

	*s = rows
	return nil
}

// Get returns the value of the named specification row
func (s Specs) Get(name string) (string, bool) {
	for _, row := range s {
		if row.Name == name {
			return row.Value, true
		}
	}
	return "", false
}

// Product represents a product in the catalogue
type Product struct {
	ID             string   `yaml:"id" json:"id"`
	SKU            string   `yaml:"sku" json:"sku"`
	Name           string   `yaml:"name" json:"name"`
	BrandID        string   `yaml:"brand" json:"brand_id"`
	SystemID       string   `yaml:"system" json:"system_id"`
	Subcategory    string   `yaml:"subcategory" json:"subcategory"`
	Image          string   `yaml:"image" json:"image"`
	Pictures       []string `yaml:"pictures,omitempty" json:"pictures,omitempty"`
	Description    string   `yaml:"description" json:"description"`
	Features       []string `yaml:"features" json:"features"`
	Specifications Specs    `yaml:"specifications" json:"specifications"`
	Video          string   `yaml:"video,omitempty" json:"video,omitempty"`
	VRQRCode       string   `yaml:"vr_qr,omitempty" json:"vr_qr,omitempty"`
	Related        []string `yaml:"related" json:"related"`
}

type document struct {
	Brands   []Brand   `yaml:"brands"`
	Products []Product `yaml:"products"`
}

// Catalog is the read-only brand/system/product graph.
// It is built once and safe for concurrent readers.
type Catalog struct {
	brands   []Brand
	products []Product
	byID     map[string]int
	brandIdx map[string]int
}

// New builds a catalogue from already decoded data
func New(brands []Brand, products []Product) *Catalog {
	c := &Catalog{
		brands:   append([]Brand(nil), brands...),
		products: append([]Product(nil), products...),
		byID:     make(map[string]int, len(products)),
		brandIdx: make(map[string]int, len(brands)),
	}

	// first declaration wins on duplicate ids; Validate reports the rest
	for i, p := range c.products {
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	for i, b := range c.brands {
		if _, ok := c.brandIdx[b.ID]; !ok {
			c.brandIdx[b.ID] = i
		}
	}

	return c
}

// Load decodes a YAML catalogue document
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}
	return New(doc.Brands, doc.Products), nil
}

// LoadFile decodes the catalogue stored at path
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the catalogue compiled into the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalogue))
}

// MustDefault is Default for program start-up
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// ListBrands returns brands in configuration order
func (c *Catalog) ListBrands() []Brand {
	return append([]Brand(nil), c.brands...)
}

// ListProducts returns every product in catalogue order
func (c *Catalog) ListProducts() []Product {
	return append([]Product(nil), c.products...)
}

// Brand looks up a brand by id
func (c *Catalog) Brand(id string) (Brand, bool) {
	i, ok := c.brandIdx[id]
	if !ok {
		return Brand{}, false
	}
	return c.brands[i], true
}

// System looks up a system declared under the given brand
func (c *Catalog) System(brandID, systemID string) (System, bool) {
	brand, ok := c.Brand(brandID)
	if !ok {
		return System{}, false
	}
	for _, s := range brand.Systems {
		if s.ID == systemID {
			return s, true
		}
	}
	return System{}, false
}
