// Package server assembles the Fiber application: views, static assets,
// middleware, health checks, metrics and routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"gh300site/internal/assets"
	"gh300site/internal/config"
	"gh300site/internal/health"
	"gh300site/internal/http/handler"
	"gh300site/internal/http/middleware"
	"gh300site/internal/logging"
	"gh300site/internal/service"
	"gh300site/internal/view"
	"gh300site/internal/web"
)

const (
	appName         = "gh300site"
	metricsPath     = "/metrics"
	shutdownTimeout = 5 * time.Second
)

// ErrUnknownPage is returned by RenderPage for names other than index and info.
var ErrUnknownPage = errors.New("unknown page")

var pagePaths = map[string]string{
	view.PageHome: "/",
	view.PageInfo: "/info",
}

// Server owns the configured Fiber app.
type Server struct {
	cfg     config.AppConfig
	app     *fiber.App
	engine  *view.Engine
	assets  *assets.Server
	metrics *prometheus.Registry
	log     *logging.Logger
}

type options struct {
	logOutput io.Writer
	site      service.SiteService
}

// Option customizes New.
type Option func(*options)

// WithLogOutput sends application and access logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithSiteService replaces the content source behind the pages.
func WithSiteService(s service.SiteService) Option {
	return func(o *options) { o.site = s }
}

// New builds the application from cfg. Templates and static files come from
// cfg.TemplatesDir / cfg.StaticDir when set, otherwise from the binary.
func New(cfg config.AppConfig, opts ...Option) (*Server, error) {
	o := options{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.site == nil {
		o.site = service.NewSiteService()
	}

	loc := cfg.Location()
	s := &Server{
		cfg: cfg,
		log: logging.New(o.logOutput, loc),
	}

	staticFS := web.StaticFS()
	if cfg.StaticDir != "" {
		staticFS = os.DirFS(cfg.StaticDir)
	}
	st, err := assets.New(staticFS, assets.Options{
		Minify: !cfg.Debug,
		Live:   cfg.Debug && cfg.StaticDir != "",
	})
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}
	s.assets = st

	templatesFS := web.TemplatesFS()
	if cfg.TemplatesDir != "" {
		templatesFS = os.DirFS(cfg.TemplatesDir)
	}
	s.engine = view.New(templatesFS, view.WithFuncs(template.FuncMap{"asset": st.URL}))
	if err := s.engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          handler.ErrorHandler(cfg.Debug),
		Views:                 s.engine,
		DisableStartupMessage: !cfg.Debug,
		EnablePrintRoutes:     cfg.Debug,
	})

	s.app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Debug}))
	s.app.Use(helmet.New())
	s.app.Use(middleware.RequestID())
	s.app.Use(otelfiber.Middleware(otelfiber.WithServerName(appName)))
	s.app.Use(middleware.LoggerWithWriter(o.logOutput, loc))

	deps := handler.Dependencies{
		Site:   o.site,
		Health: s.healthChecks(),
		Static: st.Handler(),
		Debug:  cfg.Debug,
	}

	if cfg.MetricsEnabled {
		s.metrics = prometheus.NewRegistry()
		s.metrics.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom, err := middleware.NewPrometheusMiddleware(s.metrics, metricsPath)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		s.app.Use(prom.Handler())
		deps.Metrics = adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	handler.RegisterRoutes(s.app, deps)

	return s, nil
}

func (s *Server) healthChecks() *health.Registry {
	reg := health.NewRegistry(s.cfg.HealthTimeout())

	reg.Register("templates", health.CheckFunc(func(context.Context) health.Entry {
		names := s.engine.Names()
		if len(names) == 0 {
			return health.Entry{Status: health.Unhealthy, Description: "no page templates loaded"}
		}
		return health.Entry{
			Status:      health.Healthy,
			Description: fmt.Sprintf("%d page templates loaded", len(names)),
			Data:        map[string]any{"pages": names},
		}
	}))

	reg.Register("static", health.CheckFunc(func(context.Context) health.Entry {
		n := s.assets.Len()
		if n == 0 {
			return health.Entry{Status: health.Unhealthy, Description: "no static assets loaded"}
		}
		return health.Entry{
			Status:      health.Healthy,
			Description: fmt.Sprintf("%d static assets loaded", n),
			Data:        map[string]any{"count": n},
		}
	}))

	return reg
}

// App exposes the Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Debug reports whether the app runs in development mode.
func (s *Server) Debug() bool { return s.cfg.Debug }

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully. In debug mode on-disk templates are reloaded on change.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Debug && s.cfg.TemplatesDir != "" {
		err := s.engine.Watch(ctx, s.cfg.TemplatesDir, func(err error) {
			s.log.Error("template_reload_failed", err, nil)
		})
		if err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	s.log.Info("server_starting", map[string]any{
		"addr":  ln.Addr().String(),
		"debug": s.cfg.Debug,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.app.Listener(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("server_stopping", nil)
		err := s.app.ShutdownWithTimeout(shutdownTimeout)
		// Unblocks Accept if shutdown raced ahead of Listener.
		_ = ln.Close()
		return err
	})
	return g.Wait()
}

// RenderPage writes the HTML for a named page (index or info) to w, going
// through the same middleware and handlers as a live request.
func (s *Server) RenderPage(w io.Writer, page string) error {
	p, ok := pagePaths[page]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, p, nil), -1)
	if err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		return fmt.Errorf("render %s: status %d", page, resp.StatusCode)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

var _ fiber.Views = (*view.Engine)(nil)
