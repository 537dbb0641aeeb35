package controller

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type WelcomeController struct {
	appName string
	tracer  trace.Tracer
}

// NewWelcomeController creates a new instance of WelcomeController
func NewWelcomeController(config *env.Config) *WelcomeController {
	return &WelcomeController{config.App.Name, otel.Tracer("WelcomeController")}
}

// Hello names the service and lists the roots of its resource groups.
func (r *WelcomeController) Hello(ctx *fiber.Ctx) error {
	_, span := r.tracer.Start(ctx.UserContext(), "Hello")
	defer span.End()

	return ctx.JSON(dto.WebResponse[dto.WelcomeResponse]{
		Data: dto.WelcomeResponse{
			Name:    r.appName,
			Message: "Welcome to " + r.appName + "!",
			Resources: map[string]string{
				"albums":  "/api/albums",
				"reports": "/api/reports",
				"metrics": "/metrics",
			},
		},
	})
}
