package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.True(t, cfg.Async())
	assert.Equal(t, reactive.DefaultMaxUpdateCount, cfg.Runtime.MaxUpdateCount)
	assert.Equal(t, DefaultDevtoolsPort, cfg.Devtools.Port)
	assert.Equal(t, DefaultTimelineSize, cfg.Devtools.TimelineSize)
	assert.Equal(t, "localhost:7070", cfg.DevtoolsAddress())
	require.NoError(t, cfg.Validate())
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "reactor.json", `{
  "runtime": {"async": false, "maxUpdateCount": 7, "strict": true},
  "log": {"level": "debug", "format": "json"},
  "devtools": {"port": 9000}
}`},
		{"yaml", "reactor.yaml", `
runtime:
  async: false
  maxUpdateCount: 7
  strict: true
log:
  level: debug
  format: json
devtools:
  port: 9000
`},
		{"toml", "reactor.toml", `
[runtime]
async = false
max_update_count = 7
strict = true

[log]
level = "debug"
format = "json"

[devtools]
port = 9000
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(dir)
			require.NoError(t, err)

			assert.False(t, cfg.Async())
			assert.Equal(t, 7, cfg.Runtime.MaxUpdateCount)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, 9000, cfg.Devtools.Port)
			assert.Equal(t, DefaultDevtoolsHost, cfg.Devtools.Host, "defaults fill unset fields")
			assert.Equal(t, filepath.Join(dir, tt.file), cfg.Path())

			rc := cfg.RuntimeConfig()
			assert.True(t, rc.Sync)
			assert.True(t, rc.Strict)
			assert.Equal(t, 7, rc.MaxUpdateCount)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "R014", rerrors.CodeOf(err))
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "reactor.json", "not valid json")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, "R014", rerrors.CodeOf(err))

	path = writeFile(t, dir, "reactor.ini", "x=1")
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative update count", func(c *Config) { c.Runtime.MaxUpdateCount = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad port", func(c *Config) { c.Devtools.Port = 70000 }},
		{"negative timeline", func(c *Config) { c.Devtools.TimelineSize = -1 }},
		{"bucket without region", func(c *Config) { c.Devtools.Export.Bucket = "b" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, "R014", rerrors.CodeOf(err))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			cfg := New()
			cfg.Devtools.Export = ExportConfig{Bucket: "timelines", Region: "eu-west-1"}

			require.Error(t, cfg.Save(), "save without a path")
			require.NoError(t, cfg.SaveTo(filepath.Join(dir, ConfigBaseName+ext)))

			loaded, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, "timelines", loaded.Devtools.Export.Bucket)
			assert.Equal(t, "eu-west-1", loaded.Devtools.Export.Region)
			assert.True(t, loaded.Async())
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "reactor.yaml", "log:\n  level: warn\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	want, _ := filepath.Abs(root)
	assert.Equal(t, want, found)

	_, err = FindProjectRoot(t.TempDir())
	assert.Error(t, err)
}

func TestLogOptions(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "JSON"
	opts := cfg.LogOptions()
	assert.Equal(t, "json", opts.Format)
}
