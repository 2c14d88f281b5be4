package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateThread handles POST /api/threads
// @Summary Create a thread
// @Description Create a top-level thread, or a reply when parent_id is set
// @Tags threads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,parent_id=integer} true "Thread fields"
// @Success 201 {object} models.Thread
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /threads [post]
func (s *Server) CreateThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.Create(c.Context(), service.CreateThreadInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(thread)
}

// GetThread handles GET /api/threads/:id
// @Summary Get a thread
// @Description Return a thread with vote score, view count, and reply count
// @Tags threads
// @Produce json
// @Param id path int true "Thread ID"
// @Success 200 {object} models.Thread
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id} [get]
func (s *Server) GetThread(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(thread)
}

// UpdateThread handles PUT /api/threads/:id
// @Summary Update a thread
// @Description Replace title, content, and parent; only the author may update
// @Tags threads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Param request body object{title=string,content=string,parent_id=integer} true "Replacement fields"
// @Success 200 {object} models.Thread
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id} [put]
func (s *Server) UpdateThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.Update(c.Context(), userID, id, service.UpdateThreadInput{
		Title:    req.Title,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(thread)
}

// DeleteThread handles DELETE /api/threads/:id
// @Summary Delete a thread
// @Description Soft-delete a thread; only the author may delete
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id} [delete]
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.threadService.Delete(c.Context(), userID, id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Thread deleted"})
}

// GetSubthreads handles GET /api/threads/:id/subthreads
// @Summary List a thread's replies
// @Description Cursor-paged replies, highest vote score first
// @Tags threads
// @Produce json
// @Param id path int true "Thread ID"
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{threads=[]models.Thread,next_cursor=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /threads/{id}/subthreads [get]
func (s *Server) GetSubthreads(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	claims, limit := parseCursor(c)

	threads, next, err := s.threadService.ListSubthreads(c.Context(), id, claims, limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(threadPage(threads, next))
}
