package handlers

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Interview *InterviewHandler
	Auth      *AuthHandler
	History   *HistoryHandler
	Report    *ReportHandler
}

// Register mounts every API route under /api/v1.
func Register(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	api.Post("/auth/signup", h.Auth.HandleSignup)
	api.Post("/auth/login", h.Auth.HandleLogin)

	api.Post("/interview/start", h.Interview.HandleStart)
	api.Post("/interview/turn", h.Interview.HandleTurn)
	api.Get("/interview/end", h.Interview.HandleEnd)
	api.Post("/interview/end", h.Interview.HandleEnd)
	api.Delete("/interview", h.Interview.HandleAbandon)

	interviews := api.Group("/interviews", h.Auth.RequireAuth)
	interviews.Get("/search", h.History.HandleSearch)
	interviews.Get("/", h.History.HandleList)
	interviews.Get("/:id", h.History.HandleGet)

	reports := api.Group("/interview-video", h.Auth.RequireAuth)
	reports.Post("/report", h.Report.HandleSaveReport)
	reports.Get("/reports", h.Report.HandleListReports)

	api.Get("/videos/:id", h.Auth.RequireAuth, h.Report.HandleVideo)
}
