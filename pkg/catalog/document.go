package catalog

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk representation of an achievement catalog.
type Document struct {
	Achievements []AchievementDefinition `yaml:"achievements"`
}

// LoadFile reads a catalog document from a YAML file and builds a
// validated Catalog. Supports environment variable expansion in the form
// ${VAR_NAME} or ${VAR_NAME:default}.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError("failed to read catalog file %s: %v", path, err)
	}
	return Parse(data)
}

// Parse builds a validated Catalog from raw YAML document bytes.
func Parse(data []byte) (*Catalog, error) {
	expanded := expandEnvVars(string(data))

	var doc Document
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, NewConfigError("failed to parse catalog YAML: %v", err)
	}
	if len(doc.Achievements) == 0 {
		return nil, NewConfigError("catalog document contains no achievements")
	}

	return Load(doc.Achievements)
}

// Export serializes the catalog back to a YAML document. Definitions are
// emitted in load order so a load-export-load round-trip is lossless.
func (c *Catalog) Export() ([]byte, error) {
	doc := Document{Achievements: c.All()}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, NewConfigError("failed to marshal catalog: %v", err)
	}
	return data, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
