package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetRecommendedFeed handles GET /api/feeds/recommended
// @Summary Recommended feed
// @Description Merged popularity + recency feed; authenticated viewers also get threads from followed users
// @Tags feeds
// @Produce json
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{threads=[]models.Thread,next_cursor=string}
// @Router /feeds/recommended [get]
func (s *Server) GetRecommendedFeed(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	claims, limit := parseCursor(c)

	threads, next, err := s.feedService.ListRecommended(c.Context(), viewerID, claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(threadPage(threads, next))
}
