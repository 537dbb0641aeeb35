package middleware

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const sessionKey = "session"

// SessionMiddleware opens one connection when the request starts and closes it when
// the handler chain returns. Handlers reach it through GetSession.
func SessionMiddleware(opener repository.Opener, log *logrus.Logger) fiber.Handler {
	tracer := otel.Tracer("SessionMiddleware")
	return func(c *fiber.Ctx) error {
		spanCtx, span := tracer.Start(c.UserContext(), "SessionMiddleware")
		defer span.End()

		logger := log.WithContext(spanCtx).WithField("path", c.Path())

		session, err := repository.OpenSession(spanCtx, opener)
		if err != nil {
			logger.WithError(err).Error("failed to open request session")
			return errcode.ErrDatabaseUnavailable
		}
		defer func() {
			if err := session.Close(); err != nil {
				logger.WithError(err).Warn("failed to close request session")
			}
		}()

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// GetSession returns the request session, or nil when the route is not behind SessionMiddleware.
func GetSession(ctx *fiber.Ctx) *repository.Session {
	session, _ := ctx.Locals(sessionKey).(*repository.Session)
	return session
}
