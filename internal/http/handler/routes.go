package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gh300site/internal/health"
	"gh300site/internal/http/middleware"
	"gh300site/internal/service"
	"gh300site/internal/view"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Site   service.SiteService
	Health *health.Registry
	// Static serves /static/*. Nil leaves the prefix unrouted.
	Static fiber.Handler
	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics fiber.Handler
	Debug   bool
}

// RegisterRoutes attaches the site's routes to app.
// Pages only answer GET (and HEAD); Fiber turns other methods into 405.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/", Home(deps.Site, deps.Debug))
	app.Get("/info", Info(deps.Site, deps.Debug))

	if deps.Static != nil {
		app.Get("/static/*", deps.Static)
	}

	if deps.Health != nil {
		app.Get("/health", HealthCheck(deps.Health))
	}
	app.Get("/healthz", LivenessProbe())

	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}
}

// Home renders the landing page.
func Home(site service.SiteService, debug bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(view.PageHome, view.HomePage{
			Page:  basePage(c, "首頁 Home", "home", debug),
			Cards: site.FeatureCards(c.UserContext()),
		})
	}
}

// Info renders the project information page from a freshly built record.
func Info(site service.SiteService, debug bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := site.RepoInfo(c.UserContext())

		trace.SpanFromContext(c.UserContext()).SetAttributes(
			attribute.String("repo.name", info.Name()),
			attribute.Int("repo.features", len(info.Features())),
		)

		return c.Render(view.PageInfo, view.InfoPage{
			Page: basePage(c, "專案資訊 Info", "info", debug),
			Info: info,
		})
	}
}

func basePage(c *fiber.Ctx, title, active string, debug bool) view.Page {
	return view.Page{
		Title:     title,
		Active:    active,
		Debug:     debug,
		RequestID: middleware.GetRequestID(c),
	}
}
