package server

import (
	"github.com/gofiber/fiber/v2"
)

// Home shows the landing page to visitors and the feed to logged-in users.
func (s *Server) Home(c *fiber.Ctx) error {
	rc := requestContext(c)
	if !rc.LoggedIn() {
		return s.render(c, fiber.StatusOK, "home-anon", nil)
	}

	ctx := c.UserContext()
	msgs, err := s.feed.Home(ctx, rc.UserID, 0)
	if err != nil {
		return err
	}
	stats, err := s.graph.Stats(ctx, rc.UserID)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "home", fiber.Map{
		"Messages": msgs,
		"Stats":    stats,
	})
}
