package server

import (
	"log/slog"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionUserKey    = "user_id"
	flashCategoryKey  = "flash_category"
	flashMessageKey   = "flash_message"
	requestContextKey = "requestContext"
	csrfContextKey    = "csrf"
	csrfFormField     = "csrf_token"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// RequestContext is the per-request identity resolved from the session.
// Handlers read the current user only from here.
type RequestContext struct {
	UserID    uint
	User      *models.User
	Flash     *Flash
	CSRFToken string
}

// LoggedIn reports whether the request carries a valid session user.
func (rc *RequestContext) LoggedIn() bool {
	return rc != nil && rc.User != nil
}

func requestContext(c *fiber.Ctx) *RequestContext {
	if rc, ok := c.Locals(requestContextKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

// LoadSession resolves the session user and pending flash into a
// RequestContext. A session pointing at a deleted user is cleared.
func (s *Server) LoadSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := &RequestContext{}
		if token, ok := c.Locals(csrfContextKey).(string); ok {
			rc.CSRFToken = token
		}
		c.Locals(requestContextKey, rc)

		sess, err := s.sessions.Get(c)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session unavailable", slog.String("error", err.Error()))
			return c.Next()
		}

		dirty := false
		if category, ok := sess.Get(flashCategoryKey).(string); ok {
			message, _ := sess.Get(flashMessageKey).(string)
			rc.Flash = &Flash{Category: category, Message: message}
			sess.Delete(flashCategoryKey)
			sess.Delete(flashMessageKey)
			dirty = true
		}

		if userID, ok := sess.Get(sessionUserKey).(uint); ok && userID != 0 {
			user, err := s.users.Get(c.UserContext(), userID)
			switch {
			case err == nil:
				rc.UserID = userID
				rc.User = user
				c.Locals("userID", userID)
				c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
			case models.IsCode(err, models.CodeNotFound):
				sess.Delete(sessionUserKey)
				dirty = true
			default:
				return err
			}
		}

		if dirty {
			if err := sess.Save(); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

// LoginRequired turns anonymous requests away with a flash and a redirect home.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if requestContext(c).LoggedIn() {
			return c.Next()
		}
		return s.denyAccess(c, "login")
	}
}

// OwnerRequired lets a request through only when :id is the session user.
func (s *Server) OwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		if requestContext(c).UserID != id {
			return s.denyAccess(c, "owner")
		}
		return c.Next()
	}
}

func (s *Server) denyAccess(c *fiber.Ctx, gate string) error {
	observability.AuthorizationDenials.WithLabelValues(gate).Inc()
	middleware.Logger.InfoContext(c.UserContext(), "access denied",
		slog.String("gate", gate),
		slog.String("path", c.Path()),
	)
	if err := s.setFlash(c, "danger", "Access unauthorized."); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// withSession loads the session, applies fn and saves it. Fiber releases a
// session on Save, so every mutation fetches its own.
func (s *Server) withSession(c *fiber.Ctx, fn func(*session.Session) error) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Save()
}

func putFlash(sess *session.Session, category, message string) {
	sess.Set(flashCategoryKey, category)
	sess.Set(flashMessageKey, message)
}

func (s *Server) setFlash(c *fiber.Ctx, category, message string) error {
	return s.withSession(c, func(sess *session.Session) error {
		putFlash(sess, category, message)
		return nil
	})
}

// logIn stores user in a fresh session id, with an optional greeting.
func (s *Server) logIn(c *fiber.Ctx, user *models.User, greeting string) error {
	return s.withSession(c, func(sess *session.Session) error {
		if err := sess.Regenerate(); err != nil {
			return err
		}
		sess.Set(sessionUserKey, user.ID)
		if greeting != "" {
			putFlash(sess, "success", greeting)
		}
		return nil
	})
}

// logOut drops the session user and rotates the session id.
func (s *Server) logOut(c *fiber.Ctx, category, message string) error {
	return s.withSession(c, func(sess *session.Session) error {
		sess.Delete(sessionUserKey)
		if err := sess.Regenerate(); err != nil {
			return err
		}
		putFlash(sess, category, message)
		return nil
	})
}
