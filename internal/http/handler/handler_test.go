package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gh300site/internal/health"
	"gh300site/internal/http/middleware"
	"gh300site/internal/model"
	serviceMocks "gh300site/internal/service/mocks"
	"gh300site/internal/view"
	"gh300site/internal/web"
)

func newTestApp(t *testing.T, debug bool) *fiber.App {
	t.Helper()
	engine := view.New(web.TemplatesFS())
	require.NoError(t, engine.Load())

	return fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler(debug),
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHome(t *testing.T) {
	mockSvc := new(serviceMocks.MockSiteService)
	app := newTestApp(t, false)
	app.Get("/", Home(mockSvc, false))

	mockSvc.On("FeatureCards", mock.Anything).Return(model.DefaultFeatureCards()).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	body := readBody(t, resp)
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "</html>")
	assert.Contains(t, body, "🚀")
	assert.Contains(t, body, "📝")
	assert.Contains(t, body, "🎨")
	mockSvc.AssertExpectations(t)
}

func TestInfo(t *testing.T) {
	mockSvc := new(serviceMocks.MockSiteService)
	app := newTestApp(t, false)
	app.Get("/info", Info(mockSvc, false))

	t.Run("renders every field", func(t *testing.T) {
		mockSvc.On("RepoInfo", mock.Anything).Return(model.DefaultRepoInfo()).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/info", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "20251106-GH300")
		assert.Contains(t, body, "Flask")
		assert.Contains(t, body, "Python 3.8+")
		for _, f := range model.DefaultRepoInfo().Features() {
			assert.Contains(t, body, f)
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("renders whatever the service returns", func(t *testing.T) {
		info := model.NewRepoInfo("other-project", "desc", "Fiber", "Go 1.24", "one", "two")
		mockSvc.On("RepoInfo", mock.Anything).Return(info).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/info", nil))
		require.NoError(t, err)

		body := readBody(t, resp)
		assert.Contains(t, body, "other-project")
		assert.Contains(t, body, "Go 1.24")
		assert.Contains(t, body, "2. two")
		assert.NotContains(t, body, "20251106-GH300</td>")
		mockSvc.AssertExpectations(t)
	})
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()

	healthyReg := health.NewRegistry(time.Second)
	healthyReg.Register("templates", health.CheckFunc(func(context.Context) health.Entry {
		return health.Entry{Status: health.Healthy, Description: "3 templates"}
	}))
	app.Get("/health", HealthCheck(healthyReg))

	unhealthyReg := health.NewRegistry(time.Second)
	unhealthyReg.Register("assets", health.CheckFunc(func(context.Context) health.Entry {
		return health.Entry{Status: health.Unhealthy, Description: "no assets"}
	}))
	app.Get("/health-bad", HealthCheck(unhealthyReg))

	t.Run("healthy", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body health.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, health.Healthy, body.Status)
		assert.Equal(t, "3 templates", body.Results["templates"].Description)
	})

	t.Run("unhealthy", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health-bad", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body health.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, health.Unhealthy, body.Status)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	mockSvc := new(serviceMocks.MockSiteService)
	app := newTestApp(t, false)
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Dependencies{Site: mockSvc})

	t.Run("not found route renders html", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nonexistent-page", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
		body := readBody(t, resp)
		assert.Contains(t, body, "404")
		assert.Contains(t, body, resp.Header.Get(middleware.RequestIDHeader))
		assert.NotContains(t, body, "Cannot GET")
	})

	t.Run("not found route as json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent-page", nil)
		req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
		assert.Empty(t, res.Error.Detail)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("optional endpoints are not routed", func(t *testing.T) {
		for _, p := range []string{"/health", "/metrics", "/static/css/style.css"} {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, p, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	t.Run("debug shows detail", func(t *testing.T) {
		app := newTestApp(t, true)
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "database exploded")
		assert.Contains(t, body, "debug-banner")
	})

	t.Run("production hides detail", func(t *testing.T) {
		app := newTestApp(t, false)
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := readBody(t, resp)
		assert.NotContains(t, body, "database exploded")
		assert.Contains(t, body, "Internal Server Error")
	})

	t.Run("debug json detail", func(t *testing.T) {
		app := newTestApp(t, true)
		app.Get("/bad", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "missing field") })

		req := httptest.NewRequest(http.MethodGet, "/bad", nil)
		req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "BAD_REQUEST", res.Error.Code)
		assert.Equal(t, "missing field", res.Error.Detail)
	})

	t.Run("falls back to text without views", func(t *testing.T) {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "找不到頁面 Not Found", readBody(t, resp))
	})
}
