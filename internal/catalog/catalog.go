// Package catalog holds the immutable guideline checklist and pass thresholds per evaluation type.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

//go:embed guidelines.yaml
var embedded []byte

// LegacyQAType is applied to records stored before the evaluation type existed.
// The earliest data only knew the customer-service checklist.
const LegacyQAType = models.QATypeCS

type categoryDoc struct {
	Threshold  int      `yaml:"threshold"`
	Guidelines []string `yaml:"guidelines"`
}

type document struct {
	Version    string                 `yaml:"version"`
	Categories map[string]categoryDoc `yaml:"categories"`
}

type category struct {
	threshold  int
	guidelines []string
	position   map[string]int
}

// Catalog is the loaded guideline checklist. It is safe for concurrent use.
type Catalog struct {
	version    string
	categories map[models.QAType]category
	ambiguous  []string
}

// Default parses the embedded catalog and panics if it is malformed.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded guideline catalog: %v", err))
	}
	return c
}

// Load reads the catalog from path, or returns the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(embedded)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{version: doc.Version, categories: make(map[models.QAType]category, len(models.QATypes))}
	for name := range doc.Categories {
		if !models.QAType(name).Valid() {
			return nil, fmt.Errorf("catalog category %q is not a known qa type", name)
		}
	}
	for _, qaType := range models.QATypes {
		entry, ok := doc.Categories[string(qaType)]
		if !ok {
			return nil, fmt.Errorf("catalog is missing category %s", qaType)
		}
		if entry.Threshold < 0 || entry.Threshold > 100 {
			return nil, fmt.Errorf("category %s threshold %d outside 0-100", qaType, entry.Threshold)
		}
		if len(entry.Guidelines) == 0 {
			return nil, fmt.Errorf("category %s has no guidelines", qaType)
		}
		cat := category{
			threshold:  entry.Threshold,
			guidelines: make([]string, 0, len(entry.Guidelines)),
			position:   make(map[string]int, len(entry.Guidelines)),
		}
		for _, statement := range entry.Guidelines {
			if strings.TrimSpace(statement) == "" {
				return nil, fmt.Errorf("category %s has a blank guideline", qaType)
			}
			if _, dup := cat.position[statement]; dup {
				return nil, fmt.Errorf("category %s repeats guideline %q", qaType, statement)
			}
			cat.position[statement] = len(cat.guidelines)
			cat.guidelines = append(cat.guidelines, statement)
		}
		c.categories[qaType] = cat
	}

	groups := c.categories[models.QATypeGroups]
	for _, statement := range c.categories[models.QATypeCS].guidelines {
		if _, ok := groups.position[statement]; ok {
			c.ambiguous = append(c.ambiguous, statement)
		}
	}
	return c, nil
}

// Resolve maps the legacy empty type onto LegacyQAType.
func Resolve(qaType models.QAType) models.QAType {
	if qaType == "" {
		return LegacyQAType
	}
	return qaType
}

func (c *Catalog) category(qaType models.QAType) category {
	cat, ok := c.categories[Resolve(qaType)]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown qa type %q", qaType))
	}
	return cat
}

// Version returns the catalog version string.
func (c *Catalog) Version() string {
	return c.version
}

// GuidelinesFor returns an ordered copy of the statements for qaType.
func (c *Catalog) GuidelinesFor(qaType models.QAType) []string {
	return append([]string(nil), c.category(qaType).guidelines...)
}

// PassThreshold returns the minimum passing score for qaType.
func (c *Catalog) PassThreshold(qaType models.QAType) int {
	return c.category(qaType).threshold
}

// Position returns the catalog index of statement within qaType.
func (c *Catalog) Position(qaType models.QAType, statement string) (int, bool) {
	pos, ok := c.category(qaType).position[statement]
	return pos, ok
}

// Contains reports whether statement belongs to the qaType checklist.
func (c *Catalog) Contains(qaType models.QAType, statement string) bool {
	_, ok := c.Position(qaType, statement)
	return ok
}

// Ambiguous lists statements that appear in both checklists.
func (c *Catalog) Ambiguous() []string {
	return append([]string(nil), c.ambiguous...)
}
