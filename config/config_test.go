package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/compare"
	"github.com/benedoc-inc/docdiff/core/extract"
	"github.com/benedoc-inc/docdiff/types"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
threshold: 0.7
granularity: mixed
strategy: sequence
normalize_unicode: false
quick_text_check: true
annotate: false
`))
	require.NoError(t, err)

	opts := cfg.CompareOptions()
	assert.Equal(t, 0.7, opts.SimilarityThreshold)
	assert.Equal(t, extract.GranularityMixed, opts.Granularity)
	assert.Equal(t, align.StrategySequence, opts.Strategy)
	assert.False(t, opts.NormalizeUnicode)
	assert.True(t, opts.QuickTextCheck)
	assert.False(t, opts.Annotate)
	assert.NoError(t, opts.Validate())
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, compare.DefaultCompareOptions(), cfg.CompareOptions())

	var nilCfg *Config
	assert.Equal(t, compare.DefaultCompareOptions(), nilCfg.CompareOptions())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"threshold too high", "threshold: 1"},
		{"negative threshold", "threshold: -0.1"},
		{"unknown granularity", "granularity: word"},
		{"unknown strategy", "strategy: fuzzy"},
		{"unknown key", "treshold: 0.5"},
		{"malformed", "threshold: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrConfigError), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 0.6\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.CompareOptions().SimilarityThreshold)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrIOError))
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
options:
  strategy: sequence
pairs:
  - name: intro
    left: v1/intro.html
    right: v2/intro.html
  - left: /abs/a.html
    right: /abs/b.html
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Pairs, 2)

	assert.Equal(t, "intro", m.Pairs[0].Name)
	assert.Equal(t, filepath.Join(dir, "v1", "intro.html"), m.Pairs[0].Left)
	assert.Equal(t, filepath.Join(dir, "v2", "intro.html"), m.Pairs[0].Right)
	assert.Equal(t, "pair-2", m.Pairs[1].Name)
	assert.Equal(t, "/abs/a.html", m.Pairs[1].Left)
	assert.Equal(t, align.StrategySequence, m.Options.CompareOptions().Strategy)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no pairs", "pairs: []"},
		{"missing right", "pairs:\n  - left: a.html"},
		{"duplicate names", "pairs:\n  - {name: x, left: a, right: b}\n  - {name: x, left: c, right: d}"},
		{"bad options", "options:\n  threshold: 2\npairs:\n  - {left: a, right: b}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrConfigError), "got %v", err)
		})
	}
}
