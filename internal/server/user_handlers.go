package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/me
// @Summary Get own account
// @Description Return the viewer's account; 404 until the profile is created
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.Me(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// GetMyFlags handles GET /api/me/flags
// @Summary Show feature flag evaluation for the caller
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{flags=map[string]bool,configured=map[string]string}
// @Router /me/flags [get]
func (s *Server) GetMyFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	return c.JSON(fiber.Map{
		"flags":      s.featureFlags.Snapshot(userID),
		"configured": s.featureFlags.Raw(),
	})
}

// UpsertMyProfile handles PUT /api/me/profile
// @Summary Create or update own profile
// @Description Set name, handle, avatar, and bio; marks the profile complete
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,handle=string,avatar=string,bio=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /me/profile [put]
func (s *Server) UpsertMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name   string `json:"name"`
		Handle string `json:"handle"`
		Avatar string `json:"avatar"`
		Bio    string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpsertProfile(c.Context(), service.UpsertProfileInput{
		UserID: userID,
		Name:   req.Name,
		Handle: req.Handle,
		Avatar: req.Avatar,
		Bio:    req.Bio,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:handle
// @Summary Get a public profile
// @Description Return a public profile with follower and following counts
// @Tags users
// @Produce json
// @Param handle path string true "User handle"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{handle} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfileByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// GetUserThreads handles GET /api/users/:handle/threads
// @Summary List a user's threads
// @Description Cursor-paged threads by author, newest first
// @Tags users
// @Produce json
// @Param handle path string true "User handle"
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{threads=[]models.Thread,next_cursor=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{handle}/threads [get]
func (s *Server) GetUserThreads(c *fiber.Ctx) error {
	claims, limit := parseCursor(c)

	threads, next, err := s.threadService.ListByHandle(c.Context(), c.Params("handle"), claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(threadPage(threads, next))
}

// GetUserFollowers handles GET /api/users/:handle/followers
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param handle path string true "User handle"
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{followers=[]models.Follower,next_cursor=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{handle}/followers [get]
func (s *Server) GetUserFollowers(c *fiber.Ctx) error {
	claims, limit := parseCursor(c)

	followers, next, err := s.followService.ListFollowers(c.Context(), c.Params("handle"), claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if followers == nil {
		followers = []*models.Follower{}
	}

	return c.JSON(fiber.Map{
		"followers":   followers,
		"next_cursor": next,
	})
}

// GetUserFollowing handles GET /api/users/:handle/following
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param handle path string true "User handle"
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{following=[]models.Follower,next_cursor=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{handle}/following [get]
func (s *Server) GetUserFollowing(c *fiber.Ctx) error {
	claims, limit := parseCursor(c)

	following, next, err := s.followService.ListFollowing(c.Context(), c.Params("handle"), claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if following == nil {
		following = []*models.Follower{}
	}

	return c.JSON(fiber.Map{
		"following":   following,
		"next_cursor": next,
	})
}
