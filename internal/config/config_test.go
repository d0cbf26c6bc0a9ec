package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jdeng/gopng/internal/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pngcodec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
workers: 2
encode:
  colorType: indexed
  bitDepth: 4
  interlace: true
  compressionLevel: 9
  filter: paeth
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Workers)

	opts, err := cfg.Encode.Options()
	require.NoError(t, err)
	assert.Equal(t, png.ColorIndexed, opts.ColorType)
	assert.Equal(t, uint8(4), opts.BitDepth)
	assert.Equal(t, png.InterlaceAdam7, opts.Interlace)
	assert.Equal(t, png.BestCompression, opts.CompressionLevel)
	assert.Equal(t, png.FilterFixedPaeth, opts.Filter)
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Encode.ColorType)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "colour: red\n"},
		{"bad yaml", "workers: [\n"},
		{"zero workers", "workers: 0\n"},
		{"unknown color type", "encode:\n  colorType: cmyk\n"},
		{"depth for color type", "encode:\n  colorType: rgb\n  bitDepth: 4\n"},
		{"depth without color type", "encode:\n  bitDepth: 16\n"},
		{"level", "encode:\n  compressionLevel: 12\n"},
		{"filter", "encode:\n  filter: median\n"},
	}
	for _, test := range tests {
		_, err := Load(writeConfig(t, test.body))
		assert.Error(t, err, test.name)
	}
}

func TestOptionsAuto(t *testing.T) {
	opts, err := Default().Encode.Options()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), opts.BitDepth)
	assert.Equal(t, png.FilterAdaptive, opts.Filter)
	assert.Equal(t, png.DefaultCompression, opts.CompressionLevel)

	opts, err = EncodeConfig{ColorType: "Gray-Alpha"}.Options()
	require.NoError(t, err)
	assert.Equal(t, png.ColorGrayAlpha, opts.ColorType)
	assert.Equal(t, uint8(8), opts.BitDepth)
}
