package main

import (
	"fmt"
	"os"

	"github.com/gogpu/chart"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// config holds every histdemo setting. It is filled from defaults, then an
// optional TOML file, then explicitly set flags.
type config struct {
	Bins     int     `toml:"bins"`
	Type     string  `toml:"type"`
	Samples  int     `toml:"samples"`
	Seed     int64   `toml:"seed"`
	Workers  int     `toml:"workers"`
	Mean     float64 `toml:"mean"`
	StdDev   float64 `toml:"stddev"`
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Out      string  `toml:"out"`
	Backend  string  `toml:"backend"`
	MSAA     uint32  `toml:"msaa"`
	Debug    bool    `toml:"debug"`
	BarColor string  `toml:"bar_color"`
	XTitle   string  `toml:"x_title"`
	YTitle   string  `toml:"y_title"`

	Margins *marginsConfig `toml:"margins"`
}

// marginsConfig is the [margins] table. Missing keys keep their defaults.
type marginsConfig struct {
	Left   *int `toml:"left"`
	Right  *int `toml:"right"`
	Top    *int `toml:"top"`
	Bottom *int `toml:"bottom"`
	Tick   *int `toml:"tick"`
}

func defaultConfig() config {
	return config{
		Bins:     40,
		Type:     "float32",
		Samples:  100_000,
		Seed:     42,
		Mean:     0,
		StdDev:   1,
		Width:    800,
		Height:   600,
		Out:      "histogram.png",
		Backend:  "vulkan",
		MSAA:     1,
		BarColor: "#4080e6",
		XTitle:   "value",
		YTitle:   "count",
	}
}

// loadConfig decodes the TOML file at path over cfg. Unknown keys are an
// error.
func loadConfig(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// applyFlags copies the flags the user set explicitly from src into dst.
func applyFlags(fs *pflag.FlagSet, src config, dst *config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "bins":
			dst.Bins = src.Bins
		case "type":
			dst.Type = src.Type
		case "samples":
			dst.Samples = src.Samples
		case "seed":
			dst.Seed = src.Seed
		case "workers":
			dst.Workers = src.Workers
		case "mean":
			dst.Mean = src.Mean
		case "stddev":
			dst.StdDev = src.StdDev
		case "width":
			dst.Width = src.Width
		case "height":
			dst.Height = src.Height
		case "out":
			dst.Out = src.Out
		case "backend":
			dst.Backend = src.Backend
		case "msaa":
			dst.MSAA = src.MSAA
		case "debug":
			dst.Debug = src.Debug
		case "bar-color":
			dst.BarColor = src.BarColor
		}
	})
}

func (c config) validate() error {
	if c.Bins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", c.Bins)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", c.Samples)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.StdDev <= 0 {
		return fmt.Errorf("stddev must be positive, got %g", c.StdDev)
	}
	if _, err := chart.ParseDataType(c.Type); err != nil {
		return err
	}
	return nil
}

// margins returns the default margins overridden by the [margins] table.
func (c config) margins() chart.Margins {
	m := chart.DefaultMargins()
	if c.Margins == nil {
		return m
	}
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&m.Left, c.Margins.Left)
	set(&m.Right, c.Margins.Right)
	set(&m.Top, c.Margins.Top)
	set(&m.Bottom, c.Margins.Bottom)
	set(&m.Tick, c.Margins.Tick)
	return m
}
