package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follows/:handle
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Target user handle"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /follows/{handle} [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.followService.Follow(c.Context(), userID, c.Params("handle")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Followed"})
}

// UnfollowUser handles DELETE /api/follows/:handle
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Target user handle"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /follows/{handle} [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.followService.Unfollow(c.Context(), userID, c.Params("handle")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}
