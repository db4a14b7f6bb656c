package server

import (
	"errors"
	"log/slog"
	"net/http"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// formValues echoes submitted form fields back into a re-rendered form.
type formValues struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

func (f *formValues) overlay(in service.UpdateProfileInput) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.Username, in.Username)
	set(&f.Email, in.Email)
	set(&f.ImageURL, in.ImageURL)
	set(&f.HeaderImageURL, in.HeaderImageURL)
	set(&f.Bio, in.Bio)
	set(&f.Location, in.Location)
}

// parseID extracts a route parameter as a positive uint. Anything else is
// reported as a missing page.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// render executes a view inside the base layout with the request context bound as Ctx.
func (s *Server) render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Ctx"] = requestContext(c)
	return c.Status(status).Render(view, data)
}

// statusForError maps an AppError code to the status used when a form is re-rendered.
func statusForError(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// isFormError reports whether err should be shown on the form that caused it.
func isFormError(err error) bool {
	switch models.ErrorCode(err) {
	case models.CodeValidation, models.CodeConflict, models.CodeUnauthorized:
		return true
	}
	return false
}

// errorHandler renders error pages. Missing records and unknown routes get the
// 404 page; anything unexpected is logged and shown as a 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case models.IsCode(err, models.CodeNotFound):
		status = fiber.StatusNotFound
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	view := "errors/error"
	if status == fiber.StatusNotFound {
		view = "errors/404"
	}
	data := fiber.Map{
		"Status":     status,
		"StatusText": http.StatusText(status),
	}
	if renderErr := s.render(c, status, view, data); renderErr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "error page failed to render", slog.String("error", renderErr.Error()))
		return c.Status(status).SendString(http.StatusText(status))
	}
	return nil
}
