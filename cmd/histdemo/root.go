package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/gogpu/chart"
	"github.com/gogpu/chart/internal/gpu"
	"github.com/gogpu/chart/internal/parallel"
	"github.com/gogpu/wgpu/hal"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	flagCfg    = defaultConfig()
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "histdemo",
	Short: "Render a histogram of normally distributed samples",
	Long: `histdemo draws random normal samples, bins them and renders the
histogram offscreen on the GPU, then writes the result as a PNG.

Settings come from defaults, then --config (TOML), then explicit flags.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewTextHandler(os.Stderr, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
		chart.SetLogger(logger)
	},
	RunE: runHistogram,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "TOML config file")
	f.IntVar(&flagCfg.Bins, "bins", flagCfg.Bins, "Number of histogram bins")
	f.StringVar(&flagCfg.Type, "type", flagCfg.Type, "Frequency element type: float32, int32, uint32, uint8")
	f.IntVar(&flagCfg.Samples, "samples", flagCfg.Samples, "Number of random samples")
	f.IntVar(&flagCfg.Workers, "workers", flagCfg.Workers, "Binning goroutines (0 = GOMAXPROCS)")
	f.Int64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "Random seed")
	f.Float64Var(&flagCfg.Mean, "mean", flagCfg.Mean, "Sample mean")
	f.Float64Var(&flagCfg.StdDev, "stddev", flagCfg.StdDev, "Sample standard deviation")
	f.IntVar(&flagCfg.Width, "width", flagCfg.Width, "Image width")
	f.IntVar(&flagCfg.Height, "height", flagCfg.Height, "Image height")
	f.StringVar(&flagCfg.Out, "out", flagCfg.Out, "Output PNG path")
	f.StringVar(&flagCfg.Backend, "backend", flagCfg.Backend, "GPU backend: vulkan, noop")
	f.Uint32Var(&flagCfg.MSAA, "msaa", flagCfg.MSAA, "MSAA sample count")
	f.BoolVar(&flagCfg.Debug, "debug", flagCfg.Debug, "Validate shaders and log draw state")
	f.StringVar(&flagCfg.BarColor, "bar-color", flagCfg.BarColor, "Bar fill color as hex")
}

func runHistogram(cmd *cobra.Command, args []string) error {
	cfg := defaultConfig()
	if configPath != "" {
		if err := loadConfig(configPath, &cfg); err != nil {
			return err
		}
	}
	applyFlags(cmd.Flags(), flagCfg, &cfg)
	if err := cfg.validate(); err != nil {
		return err
	}
	return render(cfg)
}

// render runs the whole pipeline for cfg and writes cfg.Out.
func render(cfg config) error {
	log := slog.Default()
	dt, err := chart.ParseDataType(cfg.Type)
	if err != nil {
		return err
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // demo data
	lo := cfg.Mean - 4*cfg.StdDev
	hi := cfg.Mean + 4*cfg.StdDev
	pool := parallel.NewWorkerPool(cfg.Workers)
	defer pool.Close()
	counts := binSamplesParallel(pool, normalSamples(rng, cfg.Samples, cfg.Mean, cfg.StdDev), cfg.Bins, lo, hi)
	log.Info("samples binned", "samples", cfg.Samples, "bins", cfg.Bins,
		"workers", pool.Workers(), "elapsed", time.Since(start))

	dev, err := gpu.Open(cfg.Backend)
	if err != nil {
		return fmt.Errorf("open GPU: %w", err)
	}
	defer dev.Close()

	ctx, err := chart.NewContext(dev.Device, dev.Queue,
		chart.WithSampleCount(cfg.MSAA),
		chart.WithDebug(cfg.Debug))
	if err != nil {
		return err
	}

	h, err := chart.NewHistogram(ctx, uint32(cfg.Bins), dt) //nolint:gosec // validated positive
	if err != nil {
		return err
	}
	defer h.Destroy()

	peak, err := uploadCounts(h, counts)
	if err != nil {
		return err
	}
	ymax := float32(niceCeil(float64(peak) * 1.05))
	if err := h.SetAxesLimits(float32(lo), float32(hi), 0, ymax); err != nil {
		return err
	}
	if err := h.SetMargins(cfg.margins()); err != nil {
		return err
	}
	bar := chart.Hex(cfg.BarColor)
	h.SetBarColor(float32(bar.R), float32(bar.G), float32(bar.B))
	h.SetXAxisTitle(cfg.XTitle)
	h.SetYAxisTitle(cfg.YTitle)

	target, err := chart.NewTarget(ctx, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer target.Destroy()

	err = target.Draw(chart.White, func(rp hal.RenderPassEncoder) {
		h.Render(rp, 0, 0, cfg.Width, cfg.Height)
	})
	if err != nil {
		return err
	}
	img, err := target.Image()
	if err != nil {
		return err
	}
	chart.DrawLabels(img, h.Chart, 0, 0, cfg.Width, cfg.Height)

	if err := writePNG(cfg.Out, img); err != nil {
		return err
	}
	log.Info("histogram written", "out", cfg.Out, "adapter", dev.Adapter,
		"width", cfg.Width, "height", cfg.Height, "elapsed", time.Since(start))
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode PNG: %w", err)
	}
	return f.Close()
}
