package server

import (
	"fmt"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// NewMessageForm renders the compose page.
func (s *Server) NewMessageForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "messages/new", fiber.Map{"Text": ""})
}

// CreateMessage posts a message as the session user.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	rc := requestContext(c)
	text := c.FormValue("text")

	if _, err := s.messages.Post(c.UserContext(), rc.UserID, text); err != nil {
		if !isFormError(err) {
			return err
		}
		return s.render(c, statusForError(err), "messages/new", fiber.Map{
			"Error": models.PublicMessage(err),
			"Text":  text,
		})
	}
	return c.Redirect(fmt.Sprintf("/users/%d", rc.UserID), fiber.StatusFound)
}

// ShowMessage renders a single message.
func (s *Server) ShowMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	msg, err := s.messages.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "messages/show", fiber.Map{
		"Message": msg,
		"IsOwner": requestContext(c).UserID == msg.UserID,
	})
}

// DeleteMessage removes one of the session user's messages.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	rc := requestContext(c)
	if err := s.messages.Delete(c.UserContext(), rc.UserID, id); err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return s.denyAccess(c, "message_owner")
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d", rc.UserID), fiber.StatusFound)
}
