// Package config loads the YAML settings shared by the pngcodec commands.
package config

import (
	"os"
	"strings"

	"github.com/jdeng/gopng/internal/oops"
	"github.com/jdeng/gopng/internal/png"
	"gopkg.in/yaml.v2"
)

type Config struct {
	LogLevel string       `yaml:"logLevel"`
	Workers  int          `yaml:"workers"`
	Encode   EncodeConfig `yaml:"encode"`
}

// EncodeConfig is the encode profile. ColorType "auto" with BitDepth 0 keeps
// the layout of the source image.
type EncodeConfig struct {
	ColorType        string `yaml:"colorType"`
	BitDepth         uint8  `yaml:"bitDepth"`
	Interlace        bool   `yaml:"interlace"`
	CompressionLevel int    `yaml:"compressionLevel"`
	Filter           string `yaml:"filter"`
}

const DefaultWorkers = 4

func Default() Config {
	return Config{
		LogLevel: "info",
		Workers:  DefaultWorkers,
		Encode: EncodeConfig{
			ColorType: "auto",
			Filter:    "adaptive",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, oops.New(err, "failed to read config file %s", path)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, oops.New(err, "failed to parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, oops.New(err, "invalid config file %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return oops.New(nil, "workers must be at least 1, got %d", c.Workers)
	}
	_, err := c.Encode.Options()
	return err
}

var colorTypes = map[string]png.ColorType{
	"gray":       png.ColorGray,
	"rgb":        png.ColorTruecolor,
	"indexed":    png.ColorIndexed,
	"gray-alpha": png.ColorGrayAlpha,
	"rgba":       png.ColorRGBA,
}

var filters = map[string]png.FilterStrategy{
	"adaptive": png.FilterAdaptive,
	"none":     png.FilterFixedNone,
	"sub":      png.FilterFixedSub,
	"up":       png.FilterFixedUp,
	"average":  png.FilterFixedAverage,
	"paeth":    png.FilterFixedPaeth,
}

// Options converts the profile into encoder options. A BitDepth of 0 in the
// result means the layout is taken from the source image; a named color type
// without a depth gets depth 8.
func (e EncodeConfig) Options() (png.EncodeOptions, error) {
	var opts png.EncodeOptions

	name := strings.ToLower(e.ColorType)
	if name == "" || name == "auto" {
		if e.BitDepth != 0 {
			return opts, oops.New(nil, "bitDepth %d needs an explicit colorType", e.BitDepth)
		}
	} else {
		ct, ok := colorTypes[name]
		if !ok {
			return opts, oops.New(nil, "unknown colorType %q", e.ColorType)
		}
		depth := e.BitDepth
		if depth == 0 {
			depth = 8
		}
		if !ct.ValidBitDepth(depth) {
			return opts, oops.New(nil, "bitDepth %d not allowed for colorType %s", depth, name)
		}
		opts.ColorType, opts.BitDepth = ct, depth
	}

	if e.Interlace {
		opts.Interlace = png.InterlaceAdam7
	}

	opts.CompressionLevel = png.CompressionLevel(e.CompressionLevel)
	if e.CompressionLevel < -1 || e.CompressionLevel > 9 {
		return opts, oops.New(nil, "compressionLevel %d out of range [-1,9]", e.CompressionLevel)
	}

	filter := strings.ToLower(e.Filter)
	if filter == "" {
		filter = "adaptive"
	}
	s, ok := filters[filter]
	if !ok {
		return opts, oops.New(nil, "unknown filter %q", e.Filter)
	}
	opts.Filter = s
	return opts, nil
}
