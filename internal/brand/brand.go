package brand

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Valid brand categories. Category selects which secondary search signal the
// evidence gatherer may use when no AI overview is present.
const (
	CategoryGeneric   = "generic"
	CategoryEcommerce = "ecommerce"
	CategorySaaS      = "saas"
	CategoryLocal     = "local"
)

// Context carries the brand profile fed into the analysis prompt. It keeps
// only the fields the pipeline needs.
type Context struct {
	Name        string   `yaml:"name" json:"brand_name"`
	Keyword     string   `yaml:"keyword" json:"keyword"`
	Category    string   `yaml:"category" json:"brand_category"`
	Competitors []string `yaml:"competitors" json:"competitors"`
}

// Normalize trims fields and coerces the category onto the known set.
// Anything unrecognized falls back to generic so category-specific search
// branches simply never fire.
func (c Context) Normalize() Context {
	out := Context{
		Name:     strings.TrimSpace(c.Name),
		Keyword:  strings.TrimSpace(c.Keyword),
		Category: NormalizeCategory(c.Category),
	}
	for _, comp := range c.Competitors {
		if t := strings.TrimSpace(comp); t != "" {
			out.Competitors = append(out.Competitors, t)
		}
	}
	return out
}

// NormalizeCategory lowercases, trims, and validates a category name.
func NormalizeCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryEcommerce:
		return CategoryEcommerce
	case CategorySaaS:
		return CategorySaaS
	case CategoryLocal:
		return CategoryLocal
	default:
		return CategoryGeneric
	}
}

// LoadFile reads a YAML brand profile.
func LoadFile(path string) (Context, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Context{}, fmt.Errorf("read brand profile: %w", err)
	}
	var c Context
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Context{}, fmt.Errorf("parse brand profile: %w", err)
	}
	return c.Normalize(), nil
}
