package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/services"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// HandleList handles GET /interviews
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	summaries, err := h.historyService.ListInterviews(currentUser(c), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"interviews": summaries,
	})
}

// HandleGet handles GET /interviews/:id
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	record, err := h.historyService.GetInterview(currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(record)
}

// HandleSearch handles GET /interviews/search?q=
func (h *HistoryHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter q is required",
		})
	}

	hits, err := h.historyService.SearchInterviews(c.UserContext(), currentUser(c), query, c.QueryInt("limit", 5))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"query":   query,
		"results": hits,
	})
}
