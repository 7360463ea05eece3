package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	extractor        services.DocumentExtractor
	authService      services.AuthService
	maxFileSize      int64
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	extractor services.DocumentExtractor,
	authService services.AuthService,
	maxFileSize int64,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		extractor:        extractor,
		authService:      authService,
		maxFileSize:      maxFileSize,
	}
}

// HandleStart handles POST /interview/start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	// The job description is optional
	jdFile, _ := c.FormFile("jobDescription")

	for _, file := range []*multipart.FileHeader{resumeFile, jdFile} {
		if file != nil && file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}
	}

	var resumeText, jdText string
	g, _ := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		text, err := h.extractUpload(resumeFile)
		resumeText = text
		return err
	})
	if jdFile != nil {
		g.Go(func() error {
			text, err := h.extractUpload(jdFile)
			jdText = text
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return respondError(c, err)
	}

	result := h.interviewService.StartInterview(c.UserContext(), services.StartInterviewInput{
		ResumeText:         resumeText,
		JobDescriptionText: jdText,
		Difficulty:         c.FormValue("difficultyLevel"),
		InterviewType:      c.FormValue("interviewType"),
	})

	c.Set(SessionHeader, result.Handle)
	return c.Status(fiber.StatusCreated).JSON(models.StartInterviewResponse{
		SessionID: result.Handle,
		Question:  result.Question,
		Degraded:  result.Degraded,
	})
}

// HandleTurn handles POST /interview/turn. The body is either JSON
// {"text": ...} or the raw answer text.
func (h *InterviewHandler) HandleTurn(c *fiber.Ctx) error {
	handle := c.Get(SessionHeader)
	if handle == "" {
		return respondError(c, services.ErrSessionNotFound)
	}

	text := string(c.Body())
	if c.Is("json") {
		var req models.TurnRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
		text = req.Text
	}

	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answer text is required",
		})
	}

	reply, err := h.interviewService.SubmitTurn(c.UserContext(), handle, text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.TurnResponse{
		Reply:    reply.Text,
		Degraded: reply.Degraded,
	})
}

// HandleEnd handles GET|POST /interview/end
func (h *InterviewHandler) HandleEnd(c *fiber.Ctx) error {
	handle := c.Get(SessionHeader)
	if handle == "" {
		return respondError(c, services.ErrSessionNotFound)
	}

	token := bearerToken(c)
	currentUserID := func() (string, error) {
		return h.authService.Authenticate(token)
	}

	result, err := h.interviewService.EndInterview(c.UserContext(), handle, currentUserID)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("X-Interview-Id", result.RecordID.String())
	return c.JSON(result.Report)
}

// HandleAbandon handles DELETE /interview
func (h *InterviewHandler) HandleAbandon(c *fiber.Ctx) error {
	if err := h.interviewService.AbandonInterview(c.Get(SessionHeader)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *InterviewHandler) extractUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return h.extractor.ExtractText(file.Filename, data)
}
