package catalog

import (
	"encoding/json"
	"os"

	"github.com/jonathan/career-advisor/internal/schemas"
	embedded "github.com/jonathan/career-advisor/schemas"
)

// LoadFile reads a catalog JSON file, validates it against the role catalog schema,
// and returns the resulting Catalog. Every failure is a *ConfigurationError.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return nil, &ConfigurationError{Message: "catalog path is empty"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Message: "failed to read catalog file " + path, Cause: err}
	}

	return Parse(data)
}

// Parse builds a Catalog from raw JSON
func Parse(data []byte) (*Catalog, error) {
	if err := schemas.ValidateEmbedded(embedded.RoleCatalog, data); err != nil {
		return nil, &ConfigurationError{Message: "catalog does not match schema", Cause: err}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &ConfigurationError{Message: "failed to parse catalog JSON", Cause: err}
	}

	return FromFile(&f)
}

// LoadOrDefault returns the built-in catalog when path is empty, otherwise the file's catalog
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
