// Package store loads and saves the category taxonomy used for categorization.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is looked up when no categories file is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryConfig is one taxonomy entry. Keywords are optional hints passed to
// the interpretation service.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// CategoriesConfig is the layout of a categories file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// TaxonomySource provides the category taxonomy.
type TaxonomySource interface {
	LoadCategories() ([]CategoryConfig, error)
}

// CategoryStore manages loading and saving of the category taxonomy file.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for the given categories file. An empty name
// means DefaultCategoriesFile.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".statement-parser", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *CategoryStore) fileName() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesFile
	}
	return s.CategoriesFile
}

// LoadCategories loads the taxonomy. A missing file is not an error: it yields
// an empty slice so callers can fall back to a default taxonomy.
func (s *CategoryStore) LoadCategories() ([]CategoryConfig, error) {
	filename := s.fileName()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.WithField(logging.FieldFile, filename).Debug("Categories file not found")
		return []CategoryConfig{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := parseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
	).Debug("Loaded categories")
	return categories, nil
}

// parseCategories accepts "categories: [...]", a bare list, or a map keyed by
// category name.
func parseCategories(data []byte) ([]CategoryConfig, error) {
	var wrapped CategoriesConfig
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Categories) > 0 {
		return wrapped.Categories, nil
	}

	var list []CategoryConfig
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}

	var byName map[string]interface{}
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]CategoryConfig, 0, len(names))
	for _, name := range names {
		category := CategoryConfig{Name: name}
		if v, ok := byName[name].(map[string]interface{}); ok {
			if keywords, ok := v["keywords"].([]interface{}); ok {
				for _, k := range keywords {
					if keyword, ok := k.(string); ok {
						category.Keywords = append(category.Keywords, strings.ToLower(keyword))
					}
				}
			}
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// SaveCategories writes the taxonomy in the "categories: [...]" layout. An
// existing file is never overwritten.
func (s *CategoryStore) SaveCategories(categories []CategoryConfig) (string, error) {
	filePath := s.fileName()
	if _, err := os.Stat(filePath); err == nil {
		return "", fmt.Errorf("categories file %s already exists", filePath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("error checking categories file: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return "", fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := yaml.Marshal(CategoriesConfig{Categories: categories})
	if err != nil {
		return "", fmt.Errorf("error marshaling categories: %w", err)
	}
	if err := os.WriteFile(filePath, data, models.PermissionExportFile); err != nil {
		return "", fmt.Errorf("error writing categories: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
	).Info("Saved categories")
	return filePath, nil
}

// Names returns the category names in file order.
func Names(categories []CategoryConfig) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// Hints returns the keyword hints keyed by category name, or nil when no
// category carries keywords.
func Hints(categories []CategoryConfig) map[string][]string {
	var hints map[string][]string
	for _, c := range categories {
		if len(c.Keywords) == 0 {
			continue
		}
		if hints == nil {
			hints = make(map[string][]string)
		}
		hints[c.Name] = c.Keywords
	}
	return hints
}

// FromNames builds keyword-less entries, e.g. for the default taxonomy.
func FromNames(names []string) []CategoryConfig {
	categories := make([]CategoryConfig, 0, len(names))
	for _, name := range names {
		categories = append(categories, CategoryConfig{Name: name})
	}
	return categories
}

// MockTaxonomySource is a TaxonomySource for tests.
type MockTaxonomySource struct {
	Categories []CategoryConfig
	Err        error
}

// LoadCategories returns the configured categories or error.
func (m *MockTaxonomySource) LoadCategories() ([]CategoryConfig, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}
