package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"rename-gateway/src/internal/types"
)

// Config contains workspace rename configuration
type Config struct {
	// WorkspaceRoot anchors relative paths and the include/exclude patterns
	WorkspaceRoot string `yaml:"workspace_root,omitempty"`

	// NativeLanguage names the language with full syntax-tree support.
	// Every other configured language is reachable only through name
	// translation.
	NativeLanguage string `yaml:"native_language"`

	// Languages maps a language name to its file extensions
	Languages map[string]*LanguageConfig `yaml:"languages"`

	// Include/Exclude are doublestar patterns, relative to WorkspaceRoot,
	// limiting which files a workspace rename may touch. An empty Include
	// list means "everything".
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// IndexPath points at the persisted JSON symbol index
	IndexPath string `yaml:"index_path,omitempty"`
}

// LanguageConfig contains configuration for a single language
type LanguageConfig struct {
	Extensions []string `yaml:"extensions"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.NativeLanguage == "" {
		return fmt.Errorf("native_language is required")
	}
	if config.Languages == nil {
		return fmt.Errorf("languages configuration is required")
	}
	if _, ok := config.Languages[config.NativeLanguage]; !ok {
		return fmt.Errorf("native_language %q is not a configured language", config.NativeLanguage)
	}

	for name, lang := range config.Languages {
		if lang == nil || len(lang.Extensions) == 0 {
			return fmt.Errorf("extensions are required for language %s", name)
		}
		for _, ext := range lang.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("extension %q for language %s must start with a dot", ext, name)
			}
		}
	}

	for _, pattern := range append(append([]string{}, config.Include...), config.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid file pattern %q", pattern)
		}
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rename-gateway", "config.yaml")
}

// GetDefaultConfig returns a default configuration: Go as the native
// language, Python as a foreign binding language.
func GetDefaultConfig() *Config {
	return &Config{
		NativeLanguage: "go",
		Languages: map[string]*LanguageConfig{
			"go": {
				Extensions: []string{".go"},
			},
			"python": {
				Extensions: []string{".py", ".pyi"},
			},
		},
		Exclude: []string{"**/vendor/**", "**/.git/**"},
	}
}

// LanguageForPath returns the configured language for a file path, based
// on its extension.
func (c *Config) LanguageForPath(path string) (types.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for name, lang := range c.Languages {
		for _, e := range lang.Extensions {
			if e == ext {
				return types.Language(name), true
			}
		}
	}
	return "", false
}

// IsForeign reports whether a language is reachable only through the name
// translation boundary.
func (c *Config) IsForeign(lang types.Language) bool {
	return string(lang) != c.NativeLanguage
}

// AllowsPath applies the include/exclude patterns to a workspace-relative
// path. Exclusions win over inclusions.
func (c *Config) AllowsPath(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
