package server

import (
	"fmt"

	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

const profileMessageLimit = 100

// ListUsers lists users, optionally filtered by ?q= on username.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	page := parsePagination(c, maxPaginationLimit)

	users, err := s.users.Search(c.UserContext(), query, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "users/index", fiber.Map{
		"Users": users,
		"Query": query,
	})
}

// profile loads the data every profile page header needs.
func (s *Server) profile(c *fiber.Ctx, id uint) (fiber.Map, error) {
	ctx := c.UserContext()
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.graph.Stats(ctx, id)
	if err != nil {
		return nil, err
	}

	data := fiber.Map{
		"User":  user,
		"Stats": stats,
	}

	rc := requestContext(c)
	if rc.LoggedIn() && rc.UserID != id {
		following, err := s.graph.IsFollowing(ctx, rc.UserID, id)
		if err != nil {
			return nil, err
		}
		data["IsFollowing"] = following
		data["CanFollow"] = true
	}
	return data, nil
}

// ShowUser renders a profile with the user's messages.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	data, err := s.profile(c, id)
	if err != nil {
		return err
	}
	msgs, err := s.messages.ForUser(c.UserContext(), id, profileMessageLimit)
	if err != nil {
		return err
	}
	data["Messages"] = msgs
	return s.render(c, fiber.StatusOK, "users/show", data)
}

// ShowFollowing lists the users :id follows.
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	data, err := s.profile(c, id)
	if err != nil {
		return err
	}
	following, err := s.graph.Following(c.UserContext(), id)
	if err != nil {
		return err
	}
	data["Users"] = following
	return s.render(c, fiber.StatusOK, "users/following", data)
}

// ShowFollowers lists the users following :id.
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	data, err := s.profile(c, id)
	if err != nil {
		return err
	}
	followers, err := s.graph.Followers(c.UserContext(), id)
	if err != nil {
		return err
	}
	data["Users"] = followers
	return s.render(c, fiber.StatusOK, "users/followers", data)
}

// FollowUser makes the session user follow :id.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	rc := requestContext(c)
	if err := s.graph.Follow(c.UserContext(), rc.UserID, id); err != nil {
		if !models.IsCode(err, models.CodeValidation) {
			return err
		}
		if err := s.setFlash(c, "danger", models.PublicMessage(err)); err != nil {
			return err
		}
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", rc.UserID), fiber.StatusFound)
}

// StopFollowing makes the session user unfollow :id.
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	rc := requestContext(c)
	if err := s.graph.Unfollow(c.UserContext(), rc.UserID, id); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", rc.UserID), fiber.StatusFound)
}

func profileForm(u *models.User) formValues {
	return formValues{
		Username:       u.Username,
		Email:          u.Email,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
	}
}

// EditProfileForm renders the profile form filled with current values.
func (s *Server) EditProfileForm(c *fiber.Ctx) error {
	rc := requestContext(c)
	return s.render(c, fiber.StatusOK, "users/edit", fiber.Map{"Form": profileForm(rc.User)})
}

// EditProfile applies a profile edit. Only submitted fields change.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	rc := requestContext(c)

	field := func(key string) *string {
		if !c.Request().PostArgs().Has(key) {
			return nil
		}
		v := c.FormValue(key)
		return &v
	}
	in := service.UpdateProfileInput{
		UserID:         rc.UserID,
		Password:       c.FormValue("password"),
		Username:       field("username"),
		Email:          field("email"),
		ImageURL:       field("image_url"),
		HeaderImageURL: field("header_image_url"),
		Bio:            field("bio"),
		Location:       field("location"),
	}

	if _, err := s.users.UpdateProfile(c.UserContext(), in); err != nil {
		if !isFormError(err) {
			return err
		}
		form := profileForm(rc.User)
		form.overlay(in)
		message := models.PublicMessage(err)
		if models.IsCode(err, models.CodeConflict) {
			message = "Username or email already taken"
		}
		return s.render(c, statusForError(err), "users/edit", fiber.Map{
			"Error": message,
			"Form":  form,
		})
	}

	if err := s.setFlash(c, "success", "Profile updated."); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d", rc.UserID), fiber.StatusFound)
}

// DeleteAccount removes the session user and everything they own.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	rc := requestContext(c)
	if err := s.users.Delete(c.UserContext(), rc.UserID); err != nil {
		return err
	}
	if err := s.logOut(c, "success", "Your account has been deleted."); err != nil {
		return err
	}
	return c.Redirect("/signup", fiber.StatusFound)
}
