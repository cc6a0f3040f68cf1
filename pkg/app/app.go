// Package app wires the whole pipeline together: template text and data
// go in, a raster image comes out.
package app

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Drelf2018/vue2img/pkg/config"
	"github.com/Drelf2018/vue2img/pkg/expr"
	"github.com/Drelf2018/vue2img/pkg/images"
	"github.com/Drelf2018/vue2img/pkg/layout"
	"github.com/Drelf2018/vue2img/pkg/render"
	"github.com/Drelf2018/vue2img/pkg/resource"
	"github.com/Drelf2018/vue2img/pkg/template"
	"github.com/Drelf2018/vue2img/pkg/text"
)

// Options configures an App.
type Options struct {
	Width    float64
	FontSize float64
	// Fonts maps extra font-family names to TTF paths.
	Fonts             map[string]string
	ExpressionTimeout time.Duration
	// BaseDir resolves relative <img src> file paths.
	BaseDir string
	// Fetcher loads network images. Nil uses an HTTPFetcher built from
	// Network.
	Fetcher  resource.Fetcher
	Network  config.NetworkConfig
	Prefetch resource.PrefetchOptions
	Logger   *zap.Logger
}

// DefaultOptions returns options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewDefaultConfig())
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Width:             cfg.Render.Width,
		FontSize:          cfg.Render.FontSize,
		Fonts:             cfg.Render.Fonts,
		ExpressionTimeout: cfg.Render.ExpressionTimeout,
		Network:           cfg.Network,
		Prefetch: resource.PrefetchOptions{
			Concurrency:   cfg.Network.Concurrency,
			RatePerSecond: cfg.Network.RatePerSecond,
		},
	}
}

// App renders mounted templates. The font and image caches are shared
// by every render of the same App.
type App struct {
	opts   Options
	fonts  *text.Fonts
	loader *images.Loader
	logger *zap.Logger

	template string
	data     map[string]any
}

// New creates an App. Zero Width and FontSize take their defaults.
func New(opts Options) *App {
	def := config.NewDefaultConfig()
	if opts.Width <= 0 {
		opts.Width = def.Render.Width
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.Render.FontSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		network := opts.Network
		if network.Timeout <= 0 {
			network = def.Network
		}
		f := resource.NewFetcher(network.Timeout, network.Retries)
		if network.UserAgent != "" {
			f.UserAgent = network.UserAgent
		}
		fetcher = f
	}
	return &App{
		opts:   opts,
		fonts:  text.NewFonts(opts.Fonts),
		loader: images.NewLoader(fetcher, opts.BaseDir),
		logger: opts.Logger,
	}
}

// Mount sets the template and data the next Export renders.
func (a *App) Mount(tmpl string, data map[string]any) *App {
	a.template = tmpl
	a.data = data
	return a
}

// Layout runs every stage up to and including layout.
func (a *App) Layout(ctx context.Context) (*layout.Layout, error) {
	logger := a.logger.With(zap.String("render_id", uuid.NewString()))
	return a.layout(ctx, logger)
}

func (a *App) layout(ctx context.Context, logger *zap.Logger) (*layout.Layout, error) {
	scope, err := expr.New(a.data, expr.WithTimeout(a.opts.ExpressionTimeout), expr.WithLogger(logger))
	if err != nil {
		return nil, a.fail(logger, "scope", err)
	}

	doc, err := template.Parse(a.template, scope)
	if err != nil {
		return nil, a.fail(logger, "parse", err)
	}
	logger.Debug("Parsed template.", zap.Int("nodes", doc.Tree.Len()))

	sources := doc.Tree.Sources()
	if err := a.loader.Preload(ctx, sources, a.opts.Prefetch); err != nil {
		return nil, a.fail(logger, "prefetch", err)
	}
	logger.Debug("Prefetched images.", zap.Int("sources", len(sources)))

	engine := layout.NewLayoutEngine(a.opts.Width, a.opts.FontSize, a.fonts, a.loader)
	l, err := engine.Layout(ctx, doc.Tree)
	if err != nil {
		return nil, a.fail(logger, "layout", err)
	}
	logger.Debug("Laid out document.", zap.Float64("width", l.Width), zap.Float64("height", l.Height))
	return l, nil
}

// Export renders the mounted template. Nothing is returned on failure.
func (a *App) Export(ctx context.Context) (*image.RGBA, error) {
	start := time.Now()
	logger := a.logger.With(zap.String("render_id", uuid.NewString()))

	l, err := a.layout(ctx, logger)
	if err != nil {
		return nil, err
	}
	img, err := render.NewRenderer(a.fonts).Paint(l)
	if err != nil {
		return nil, a.fail(logger, "paint", err)
	}
	logger.Debug("Rendered image.",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return img, nil
}

// SavePNG renders the mounted template and writes it to path.
func (a *App) SavePNG(ctx context.Context, path string) error {
	img, err := a.Export(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func (a *App) fail(logger *zap.Logger, phase string, err error) error {
	logger.Error("Render failed.", zap.String("phase", phase), zap.Error(err))
	return fmt.Errorf("%s: %w", phase, err)
}

// Render is the one-shot form of New(opts).Mount(tmpl, data).Export(ctx).
func Render(ctx context.Context, tmpl string, data map[string]any, opts Options) (*image.RGBA, error) {
	return New(opts).Mount(tmpl, data).Export(ctx)
}
