package middleware

import (
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// albumAPIMethods are the verbs the album and report routes answer to.
var albumAPIMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete}

// Cors lets browser clients on the configured origins call the album and report APIs.
// The API sets no cookies, so credentialed requests are not allowed.
func Cors(config *env.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  config.Web.Cors.AllowOrigins,
		AllowMethods:  strings.Join(albumAPIMethods, ","),
		AllowHeaders:  "Origin, Content-Type, Accept",
		ExposeHeaders: "Content-Length",
		MaxAge:        config.Web.Cors.MaxAge,
	})
}
