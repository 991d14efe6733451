package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dawnfire/dashboard/internal/apperr"
	"github.com/dawnfire/dashboard/internal/calendar"
	"github.com/dawnfire/dashboard/internal/config"
	"github.com/dawnfire/dashboard/internal/metrics"
	"github.com/dawnfire/dashboard/internal/scheduler"
	"github.com/dawnfire/dashboard/internal/store"
	"github.com/dawnfire/dashboard/internal/weather"
)

var validate = validator.New()

// Deps bundles the services the HTTP handlers dispatch to.
type Deps struct {
	Config   *config.AppConfig
	Weather  *weather.Service
	Calendar *calendar.Service
	Metrics  *metrics.Client
	Store    *store.MemoryStore
}

// ErrorHandler renders every handler error as the structured payload
// the widgets expect. apperr types map to their HTTP statuses; plain
// fiber errors keep their code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := apperr.HTTPStatus(err)
	message := err.Error()

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		// Keep upstream causes and anything else out of the payload.
		message = appErr.Message
	}
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			location = deps.Config.WeatherLocation
		}

		result, err := deps.Weather.Get(c.UserContext(), location)
		if err != nil {
			// Missing configuration is the caller's problem; anything
			// else can fall back to the last good snapshot.
			if !apperr.IsType(err, apperr.TypeConfig) && deps.Store != nil {
				if snap, serr := deps.Store.Latest(scheduler.WeatherKey(location)); serr == nil {
					return c.JSON(snap.Payload)
				}
			}
			return err
		}

		return c.JSON(result)
	})

	api.Get("/calendar/events", func(c *fiber.Ctx) error {
		// Unknown keywords deliberately fall through to "today" inside
		// the service, matching the widgets' tolerance.
		rangeKeyword := c.Query("date", calendar.RangeToday)

		events, err := deps.Calendar.Events(c.UserContext(), rangeKeyword)
		if err != nil {
			return err
		}

		return c.JSON(events)
	})

	api.Get("/prometheus/query", func(c *fiber.Ctx) error {
		var req metricsQuery
		req.Query = c.Query("query")
		if err := validate.Struct(req); err != nil {
			return apperr.Validation("missing query parameter")
		}

		result, err := deps.Metrics.Query(c.UserContext(), req.Query)
		if err != nil {
			return err
		}

		return c.JSON(result)
	})

	// Development-only config echo for the browser shell. Production
	// injects configuration through the deployment instead, and the
	// CalDAV password is never served on any path.
	api.Get("/config", func(c *fiber.Ctx) error {
		if deps.Config.Production() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Config endpoint not available in production",
				"hint":  "Configuration is injected at deploy time",
			})
		}

		return c.JSON(fiber.Map{
			"openWeatherMapApiKey":   deps.Config.OpenWeatherAPIKey,
			"openWeatherMapLocation": deps.Config.WeatherLocation,
			"nextcloudUrl":           deps.Config.NextcloudURL,
			"nextcloudUser":          deps.Config.NextcloudUser,
			"prometheusUrl":          deps.Config.PrometheusURL,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"environment": deps.Config.Env,
			"configReady": deps.Config.OpenWeatherAPIKey != "",
		})
	})
}

// metricsQuery holds the prometheus proxy's query parameter.
type metricsQuery struct {
	Query string `validate:"required"`
}
