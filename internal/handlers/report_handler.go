package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
	maxFileSize   int64
}

func NewReportHandler(reportService services.ReportService, maxFileSize int64) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		maxFileSize:   maxFileSize,
	}
}

// HandleSaveReport handles POST /interview-video/report
func (h *ReportHandler) HandleSaveReport(c *fiber.Ctx) error {
	video, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "video file is required",
		})
	}
	if video.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "video file too large",
		})
	}

	analysis := c.FormValue("analysis")
	if analysis == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "analysis is required",
		})
	}

	report, err := h.reportService.SaveReport(currentUser(c), video, analysis)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleListReports handles GET /interview-video/reports
func (h *ReportHandler) HandleListReports(c *fiber.Ctx) error {
	reports, err := h.reportService.ListReports(currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
	})
}

// HandleVideo handles GET /videos/:id
func (h *ReportHandler) HandleVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video ID format",
		})
	}

	path, err := h.reportService.GetVideoPath(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendFile(path)
}
