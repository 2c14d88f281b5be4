package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReactToThread handles POST /api/threads/:id/votes
// @Summary React to a thread
// @Description Record an up or down reaction; one reaction per user per thread
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Param request body object{reaction=string} true "Reaction: up or down"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id}/votes [post]
func (s *Server) ReactToThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.votesService.React(c.Context(), userID, id, models.Reaction(req.Reaction)); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Reaction recorded"})
}

// CancelReaction handles DELETE /api/threads/:id/votes
// @Summary Cancel a reaction
// @Description Remove the held reaction; polarity may be passed in the body or the reaction query param
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Param reaction query string false "Reaction: up or down"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id}/votes [delete]
func (s *Server) CancelReaction(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// DELETE bodies are optional; fall back to the query param, then "up".
	var req struct {
		Reaction string `json:"reaction"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}
	if req.Reaction == "" {
		req.Reaction = c.Query("reaction", string(models.ReactionUp))
	}

	if err := s.votesService.CancelReaction(c.Context(), userID, id, models.Reaction(req.Reaction)); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Reaction removed"})
}

// GetUpvotedThreads handles GET /api/me/votes/upvoted
// @Summary List own upvoted threads
// @Description Cursor-paged, most recent reaction first
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{threads=[]models.Thread,next_cursor=string}
// @Router /me/votes/upvoted [get]
func (s *Server) GetUpvotedThreads(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	claims, limit := parseCursor(c)

	threads, next, err := s.votesService.ListUpvoted(c.Context(), userID, claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(threadPage(threads, next))
}

// GetDownvotedThreads handles GET /api/me/votes/downvoted
// @Summary List own downvoted threads
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{threads=[]models.Thread,next_cursor=string}
// @Router /me/votes/downvoted [get]
func (s *Server) GetDownvotedThreads(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	claims, limit := parseCursor(c)

	threads, next, err := s.votesService.ListDownvoted(c.Context(), userID, claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(threadPage(threads, next))
}
