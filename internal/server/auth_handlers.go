package server

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupForm renders the signup page.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "users/signup", fiber.Map{"Form": formValues{}})
}

// Signup creates the account and logs the new user in.
func (s *Server) Signup(c *fiber.Ctx) error {
	in := service.SignupInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		ImageURL: c.FormValue("image_url"),
	}

	user, err := s.identity.Signup(c.UserContext(), in)
	if err != nil {
		if !isFormError(err) {
			return err
		}
		message := models.PublicMessage(err)
		if models.IsCode(err, models.CodeConflict) {
			message = "Username or email already taken"
		}
		return s.render(c, statusForError(err), "users/signup", fiber.Map{
			"Error": message,
			"Form": formValues{
				Username: in.Username,
				Email:    in.Email,
				ImageURL: in.ImageURL,
			},
		})
	}

	if err := s.logIn(c, user, fmt.Sprintf("Welcome to Warbler, %s!", user.Username)); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// LoginForm renders the login page.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "users/login", fiber.Map{"Form": formValues{}})
}

// Login authenticates the submitted credentials. The reason for a failure is
// never shown.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	result := s.identity.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if !result.OK() {
		if result.Reason == service.AuthError {
			return models.NewInternalError(fmt.Errorf("authentication unavailable"))
		}
		return s.render(c, fiber.StatusUnauthorized, "users/login", fiber.Map{
			"Error": "Invalid credentials.",
			"Form":  formValues{Username: username},
		})
	}

	if err := s.logIn(c, result.User, fmt.Sprintf("Hello, %s!", result.User.Username)); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Logout clears the session user.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.logOut(c, "success", "You have successfully logged out."); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusFound)
}
