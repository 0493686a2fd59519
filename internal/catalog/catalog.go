// Package catalog loads the static list of models the server can route to.
package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

//go:embed models.json
var defaultModels []byte

// Catalog is an immutable, ordered list of model configurations.
type Catalog struct {
	models []domain.ModelConfig
}

// tomlFile is the TOML layout: an array of [[models]] tables.
type tomlFile struct {
	Models []domain.ModelConfig `toml:"models"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultModels, ".json")
}

// Load reads a catalog from path, or the embedded default when path is empty.
// The format is chosen from the file extension.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model catalog %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a catalog in the format named by ext (".json", ".yaml",
// ".yml" or ".toml") and validates every entry.
func Parse(data []byte, ext string) (*Catalog, error) {
	var models []domain.ModelConfig
	switch strings.ToLower(ext) {
	case ".json", "":
		if err := json.Unmarshal(data, &models); err != nil {
			return nil, errors.Wrap(err, "decode json catalog")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &models); err != nil {
			return nil, errors.Wrap(err, "decode yaml catalog")
		}
	case ".toml":
		var f tomlFile
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, errors.Wrap(err, "decode toml catalog")
		}
		models = f.Models
	default:
		return nil, errors.Errorf("unsupported catalog format %q", ext)
	}

	if len(models) == 0 {
		return nil, errors.New("model catalog is empty")
	}

	validate := validator.New()
	for i, m := range models {
		if err := validate.Struct(m); err != nil {
			return nil, errors.Wrapf(err, "model %d (%q)", i, m.Name)
		}
	}

	dups := lo.FindDuplicatesBy(models, func(m domain.ModelConfig) string { return m.Name })
	if len(dups) > 0 {
		return nil, errors.Errorf("duplicate model name %q", dups[0].Name)
	}

	return &Catalog{models: models}, nil
}

// Models returns a copy of every model in catalog order.
func (c *Catalog) Models() []domain.ModelConfig {
	out := make([]domain.ModelConfig, len(c.models))
	copy(out, c.models)
	return out
}

// Default returns the first model in the catalog.
func (c *Catalog) Default() domain.ModelConfig {
	return c.models[0]
}

// Find looks a model up by name.
func (c *Catalog) Find(name string) (domain.ModelConfig, bool) {
	return lo.Find(c.models, func(m domain.ModelConfig) bool { return m.Name == name })
}

// Resolve returns the named model, or the default model when name is empty.
func (c *Catalog) Resolve(name string) (domain.ModelConfig, error) {
	if name == "" {
		return c.Default(), nil
	}
	m, ok := c.Find(name)
	if !ok {
		return domain.ModelConfig{}, errors.Wrapf(domain.ErrNotFound, "model %q", name)
	}
	return m, nil
}
