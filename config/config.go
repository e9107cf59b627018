// Package config loads comparison options and batch manifests from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/compare"
	"github.com/benedoc-inc/docdiff/core/extract"
	"github.com/benedoc-inc/docdiff/types"
)

// Config mirrors compare.CompareOptions. Pointer fields distinguish
// "not set" from a false value so a file can switch defaults off.
type Config struct {
	Threshold        *float64 `yaml:"threshold,omitempty"`
	Granularity      string   `yaml:"granularity,omitempty"`
	Strategy         string   `yaml:"strategy,omitempty"`
	NormalizeUnicode *bool    `yaml:"normalize_unicode,omitempty"`
	QuickTextCheck   bool     `yaml:"quick_text_check,omitempty"`
	Annotate         *bool    `yaml:"annotate,omitempty"`
}

// Pair is one document pair of a batch manifest
type Pair struct {
	Name  string `yaml:"name"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Manifest lists the pairs compared by a batch run. Options, when present,
// apply to every pair.
type Manifest struct {
	Options Config `yaml:"options,omitempty"`
	Pairs   []Pair `yaml:"pairs"`
}

// Load reads a Config from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapErrorf(types.ErrCodeIOError, err, "failed to read config %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a Config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, types.WrapError(types.ErrCodeConfigError, "invalid config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that were set
func (c *Config) Validate() error {
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold >= 1) {
		return types.NewDiffErrorf(types.ErrCodeConfigError, "threshold %v outside [0, 1)", *c.Threshold)
	}
	switch extract.Granularity(c.Granularity) {
	case "", extract.GranularityBlock, extract.GranularityMixed:
	default:
		return types.NewDiffErrorf(types.ErrCodeConfigError, "unknown granularity %q", c.Granularity)
	}
	switch align.Strategy(c.Strategy) {
	case "", align.StrategyGreedy, align.StrategySequence:
	default:
		return types.NewDiffErrorf(types.ErrCodeConfigError, "unknown strategy %q", c.Strategy)
	}
	return nil
}

// CompareOptions applies the configured values over DefaultCompareOptions
func (c *Config) CompareOptions() compare.CompareOptions {
	opts := compare.DefaultCompareOptions()
	if c == nil {
		return opts
	}
	if c.Threshold != nil {
		opts.SimilarityThreshold = *c.Threshold
	}
	if c.Granularity != "" {
		opts.Granularity = extract.Granularity(c.Granularity)
	}
	if c.Strategy != "" {
		opts.Strategy = align.Strategy(c.Strategy)
	}
	if c.NormalizeUnicode != nil {
		opts.NormalizeUnicode = *c.NormalizeUnicode
	}
	if c.Annotate != nil {
		opts.Annotate = *c.Annotate
	}
	opts.QuickTextCheck = c.QuickTextCheck
	return opts
}

// LoadManifest reads a batch manifest. Relative document paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapErrorf(types.ErrCodeIOError, err, "failed to read manifest %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range m.Pairs {
		m.Pairs[i].Left = resolve(dir, m.Pairs[i].Left)
		m.Pairs[i].Right = resolve(dir, m.Pairs[i].Right)
	}
	return m, nil
}

// ParseManifest decodes and validates a manifest. Pairs without a name are
// named after their position.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, types.WrapError(types.ErrCodeConfigError, "invalid manifest", err)
	}
	if err := m.Options.Validate(); err != nil {
		return nil, err
	}
	if len(m.Pairs) == 0 {
		return nil, types.NewDiffError(types.ErrCodeConfigError, "manifest has no pairs")
	}
	seen := make(map[string]bool, len(m.Pairs))
	for i := range m.Pairs {
		p := &m.Pairs[i]
		if p.Left == "" || p.Right == "" {
			return nil, types.NewDiffErrorf(types.ErrCodeConfigError, "pair %d: left and right are required", i+1).
				WithContext("pair", i+1)
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("pair-%d", i+1)
		}
		if seen[p.Name] {
			return nil, types.NewDiffErrorf(types.ErrCodeConfigError, "duplicate pair name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return &m, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
