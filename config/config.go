package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masmgr/nextver/internal/classify"
	"github.com/masmgr/nextver/internal/discovery"
	"github.com/masmgr/nextver/internal/semver"
)

// DefaultTagPattern selects tags of the form <series>-<major>.<minor>.<patch>.
const DefaultTagPattern = `^.+-[0-9]+\.[0-9]+\.[0-9]+$`

// Config is the root configuration structure.
type Config struct {
	Tags           TagConfig            `json:"tags" yaml:"tags"`
	Classification ClassificationConfig `json:"classification" yaml:"classification"`
	Git            GitConfig            `json:"git" yaml:"git"`
	Scan           ScanConfig           `json:"scan" yaml:"scan"`
}

// TagConfig selects which tags count as releases.
type TagConfig struct {
	Pattern string `json:"pattern" yaml:"pattern"` // Regex matched against the tag name
}

// ClassificationConfig overrides the commit severity rules.
// An empty pattern list keeps the built-in patterns for that level.
type ClassificationConfig struct {
	DefaultLevel string   `json:"defaultLevel" yaml:"defaultLevel"` // Default: "minor"
	Major        []string `json:"major" yaml:"major"`
	Minor        []string `json:"minor" yaml:"minor"`
	Patch        []string `json:"patch" yaml:"patch"`
}

// GitConfig holds history provider options.
type GitConfig struct {
	Backend string `json:"backend" yaml:"backend"` // "gitcli" or "native"
	GitPath string `json:"gitPath" yaml:"gitPath"`
}

// ScanConfig holds multi-repository scan options.
type ScanConfig struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Exclude []string `json:"exclude" yaml:"exclude"`
	Workers int      `json:"workers" yaml:"workers"` // Default: number of CPUs
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Tags: TagConfig{
			Pattern: DefaultTagPattern,
		},
		Classification: ClassificationConfig{
			DefaultLevel: semver.LevelMinor.String(),
			Major:        []string{},
			Minor:        []string{},
			Patch:        []string{},
		},
		Git: GitConfig{
			Backend: "gitcli",
			GitPath: "git",
		},
		Scan: ScanConfig{
			Pattern: discovery.DefaultPattern,
			Exclude: []string{},
			Workers: runtime.NumCPU(),
		},
	}
}

var defaultFileNames = []string{".nextver.json", ".nextver.yaml", ".nextver.yml"}

// LoadConfig loads configuration from a file, merging with defaults.
// Without a path, .nextver.{json,yaml,yml} is looked up in the working
// directory and then in the home directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range defaultFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfig saves configuration to a file, as YAML when the extension says so.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate compiles every pattern once so mistakes surface at load time.
func (c *Config) Validate() error {
	if _, err := c.TagPattern(); err != nil {
		return err
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative, got %d", c.Scan.Workers)
	}
	return nil
}

// TagPattern compiles Tags.Pattern. An empty pattern accepts every tag.
func (c *Config) TagPattern() (*regexp.Regexp, error) {
	if c.Tags.Pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Tags.Pattern)
	if err != nil {
		return nil, fmt.Errorf("tags.pattern: %w", err)
	}
	return re, nil
}

// Classifier builds the severity classifier described by the classification section.
func (c *Config) Classifier() (*classify.Classifier, error) {
	level := semver.LevelMinor
	if c.Classification.DefaultLevel != "" {
		parsed, err := semver.ParseLevel(c.Classification.DefaultLevel)
		if err != nil {
			return nil, fmt.Errorf("classification.defaultLevel: %w", err)
		}
		level = parsed
	}

	rules, err := classify.CompileRules(c.Classification.Major, c.Classification.Minor, c.Classification.Patch)
	if err != nil {
		return nil, fmt.Errorf("classification: %w", err)
	}
	return classify.NewClassifier(rules, level)
}

// ScanWorkers returns the worker count, falling back to the number of CPUs.
func (c *Config) ScanWorkers() int {
	if c.Scan.Workers > 0 {
		return c.Scan.Workers
	}
	return runtime.NumCPU()
}
