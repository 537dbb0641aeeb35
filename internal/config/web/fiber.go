package web

import (
	"errors"
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// NewFiber initializes a new Fiber app with custom configurations.
func NewFiber(log *logrus.Logger, config *env.Config) *fiber.App {
	var app = fiber.New(fiber.Config{
		AppName:      config.App.Name,
		ErrorHandler: newErrorHandler(log),
		Prefork:      config.Web.Prefork,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Recover middleware to prevent crashes from panics
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())

	return app
}

// newErrorHandler returns a structured global error handler.
func newErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		response := dto.ErrorResponse{
			Code:    errcode.CodeInternal,
			Message: "Internal server error",
		}
		entry := log.WithContext(ctx.UserContext()).WithError(err).WithField("path", ctx.Path())

		// Check if the error exists in the custom error map
		if code, exists := errcode.GetHTTPStatus(err); exists {
			if code >= fiber.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Warn("request rejected")
			}
			response.Code = errcode.GetCode(err)
			response.Message = err.Error()
			return ctx.Status(code).JSON(response)
		}

		// Handle go-playground validation errors
		var ve *validation.ValidationError
		if errors.As(err, &ve) {
			entry.Warn("request validation failed")
			response.Code = errcode.CodeValidationFailed
			response.Message = "Validation failed"
			response.Errors = ve.Errors
			return ctx.Status(fiber.StatusBadRequest).JSON(response)
		}

		// Handle Fiber errors (e.g., routing, JSON parsing)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			entry.Warn("fiber error")
			response.Code = statusCode(fe.Code)
			response.Message = fe.Message
			return ctx.Status(fe.Code).JSON(response)
		}

		entry.Error("unhandled error")
		return ctx.Status(fiber.StatusInternalServerError).JSON(response)
	}
}

// statusCode turns an HTTP status into a code such as "method_not_allowed".
func statusCode(status int) string {
	message := utils.StatusMessage(status)
	if message == "" {
		return errcode.CodeInternal
	}
	return strings.ToLower(strings.Join(strings.Fields(message), "_"))
}
