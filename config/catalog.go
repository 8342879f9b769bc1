package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/glbter/distributed-systems/advisor/entities"
)

//go:embed assets.yaml
var defaultCatalog []byte

// Catalog is the read-only lookup data shared by scoring and simulation.
// It is built once at startup and must not be mutated afterwards.
type Catalog struct {
	Assets              []entities.AssetClass
	AssetNamesEN        map[string]string
	AssetDescriptionsEN map[string]string
	Recommendations     entities.RecommendedAllocations
	Mapping             entities.RiskScoreMapping
	Categories          []entities.RiskCategory

	byName map[string]entities.AssetClass
}

type catalogDoc struct {
	Assets              []entities.AssetClass         `yaml:"assets"`
	AssetNamesEN        map[string]string             `yaml:"asset_names_en"`
	AssetDescriptionsEN map[string]string             `yaml:"asset_descriptions_en"`
	RiskRecommendations map[string]map[string]float64 `yaml:"risk_recommendations"`
	RiskMapping         map[string]map[string]int     `yaml:"risk_mapping"`
	RiskCategories      []categoryDoc                 `yaml:"risk_categories"`
}

type categoryDoc struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	MaxScore *int   `yaml:"max_score"`
}

// LoadCatalog reads the catalog document at path. A missing file falls back
// to the built-in catalog; a malformed or inconsistent one is an error.
func LoadCatalog(path string, logger *zap.Logger) (*Catalog, error) {
	logger = logger.With(zap.String("method", "LoadCatalog"), zap.String("path", path))

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("catalog file not found, using built-in catalog")
		return DefaultCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := ParseCatalog(b)
	if err != nil {
		return nil, err
	}

	logger.Info("catalog loaded",
		zap.Int("assets", len(c.Assets)),
		zap.Int("categories", len(c.Categories)),
		zap.Int("questions", len(c.Mapping)))

	return c, nil
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(b []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", entities.ErrConfiguration, err)
	}

	c := &Catalog{
		Assets:              doc.Assets,
		AssetNamesEN:        doc.AssetNamesEN,
		AssetDescriptionsEN: doc.AssetDescriptionsEN,
		Recommendations:     make(entities.RecommendedAllocations, len(doc.RiskRecommendations)),
		Mapping:             doc.RiskMapping,
		byName:              make(map[string]entities.AssetClass, len(doc.Assets)),
	}
	for id, alloc := range doc.RiskRecommendations {
		c.Recommendations[id] = alloc
	}
	for _, cd := range doc.RiskCategories {
		rc := entities.RiskCategory{ID: cd.ID, Name: cd.Name}
		if cd.MaxScore == nil {
			rc.Unbounded = true
		} else {
			rc.MaxScore = *cd.MaxScore
		}
		c.Categories = append(c.Categories, rc)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("%w: no asset classes", entities.ErrConfiguration)
	}
	for _, a := range c.Assets {
		if a.Name == "" {
			return fmt.Errorf("%w: asset class without a name", entities.ErrConfiguration)
		}
		if _, dup := c.byName[a.Name]; dup {
			return fmt.Errorf("%w: duplicate asset class %q", entities.ErrConfiguration, a.Name)
		}
		if a.Risk < 0 || !isFinite(a.Risk) || !isFinite(a.ExpectedReturn) {
			return fmt.Errorf("%w: asset class %q has invalid parameters", entities.ErrConfiguration, a.Name)
		}
		c.byName[a.Name] = a
	}

	if len(c.Mapping) == 0 {
		return fmt.Errorf("%w: empty risk mapping", entities.ErrConfiguration)
	}

	if err := validateCategories(c.Categories); err != nil {
		return err
	}

	known := make(map[string]bool, len(c.Categories))
	for _, rc := range c.Categories {
		known[rc.ID] = true
	}
	for _, rc := range c.Categories {
		if _, ok := c.Recommendations[rc.ID]; !ok {
			return fmt.Errorf("%w: no recommended allocation for risk category %q", entities.ErrConfiguration, rc.ID)
		}
	}

	ids := make([]string, 0, len(c.Recommendations))
	for id := range c.Recommendations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: recommendation for unknown risk category %q", entities.ErrConfiguration, id)
		}
		sum := 0.0
		for asset, w := range c.Recommendations[id] {
			if _, ok := c.byName[asset]; !ok {
				return fmt.Errorf("%w: recommendation %q references unknown asset class %q", entities.ErrConfiguration, id, asset)
			}
			if w < 0 || w > 1 {
				return fmt.Errorf("%w: recommendation %q weight of %q is %v", entities.ErrConfiguration, id, asset, w)
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("%w: recommendation %q weights sum to %v", entities.ErrConfiguration, id, sum)
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validateCategories requires unique ids, strictly ascending thresholds
// and at most one unbounded category, in last position.
func validateCategories(categories []entities.RiskCategory) error {
	if len(categories) == 0 {
		return fmt.Errorf("%w: no risk categories", entities.ErrConfiguration)
	}

	seen := make(map[string]bool, len(categories))
	for i, rc := range categories {
		if rc.ID == "" {
			return fmt.Errorf("%w: risk category %d has no id", entities.ErrConfiguration, i)
		}
		if seen[rc.ID] {
			return fmt.Errorf("%w: duplicate risk category %q", entities.ErrConfiguration, rc.ID)
		}
		seen[rc.ID] = true

		if rc.Unbounded && i != len(categories)-1 {
			return fmt.Errorf("%w: only the last risk category may omit max_score, %q does not come last", entities.ErrConfiguration, rc.ID)
		}
		if i > 0 && !rc.Unbounded && rc.MaxScore <= categories[i-1].MaxScore {
			return fmt.Errorf("%w: risk category %q max_score %d is not above %d", entities.ErrConfiguration, rc.ID, rc.MaxScore, categories[i-1].MaxScore)
		}
	}

	return nil
}

// Asset returns the asset class with the given name.
func (c *Catalog) Asset(name string) (entities.AssetClass, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// AssetMap returns a copy of the asset classes keyed by name.
func (c *Catalog) AssetMap() map[string]entities.AssetClass {
	out := make(map[string]entities.AssetClass, len(c.byName))
	for k, v := range c.byName {
		out[k] = v
	}

	return out
}

// Localized returns the asset classes with English names and descriptions
// when lang is "en"; otherwise the catalog's own names are used.
func (c *Catalog) Localized(lang string) []entities.AssetClass {
	out := make([]entities.AssetClass, len(c.Assets))
	for i, a := range c.Assets {
		if lang == "en" {
			if n, ok := c.AssetNamesEN[a.Name]; ok {
				a.DisplayName = n
			}
			if d, ok := c.AssetDescriptionsEN[a.Name]; ok {
				a.Description = d
			}
		}
		if a.DisplayName == "" {
			a.DisplayName = a.Name
		}
		out[i] = a
	}

	return out
}
