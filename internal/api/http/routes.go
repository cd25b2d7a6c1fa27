package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/i474232898/marine-observations/internal/marine"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Code    marine.ErrorCode `json:"code,omitempty"`
}

// NewApp builds the Fiber app with the shared error handler and the service routes.
// Extra middleware runs after recover and request-id, ahead of every route.
func NewApp(service *marine.Service, middleware ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "marine-observations",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	for _, mw := range middleware {
		app.Use(mw)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "marine-observations",
		})
	})

	RegisterRoutes(app, service)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *marine.Service) {
	api := app.Group("/api")

	// The parameter is optional so an empty station reaches validation and gets a 400.
	api.Get("/marine/:station?", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals("requestid").(string); ok {
			ctx = marine.ContextWithRequestID(ctx, id)
		}

		obs, err := service.FetchObservation(ctx, c.Params("station"))
		if err != nil {
			return err
		}

		if obs.Cached {
			c.Set("X-Cache", "HIT")
		} else {
			c.Set("X-Cache", "MISS")
		}
		return c.JSON(obs)
	})
}

// ErrorHandler renders errors as {error, message} with a status derived from the error class.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorBody{
			Error:   http.StatusText(fe.Code),
			Message: fe.Message,
		})
	}

	e := marine.Classify(err)
	return c.Status(StatusFor(e.Code)).JSON(errorBody{
		Error:   e.Summary,
		Message: e.Message,
		Code:    e.Code,
	})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code marine.ErrorCode) int {
	switch code {
	case marine.CodeInvalidStation:
		return fiber.StatusBadRequest
	case marine.CodeStationNotFound, marine.CodeUpstreamUnavailable, marine.CodeInvalidFormat:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
