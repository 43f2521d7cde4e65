package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/config"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/handlers"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/middleware"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/payment"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/repository"
	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	formula, err := payment.ParseFormula(cfg.PaymentFormula)
	if err != nil {
		return err
	}
	calculator := payment.NewCalculator(formula)

	studioRepo := repository.NewStudioRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	studioService := services.NewStudioService(db, studioRepo, sessionRepo)
	sessionService := services.NewSessionService(db, sessionRepo, studioRepo, calculator)
	statsService := services.NewStatsService(sessionRepo, studioRepo, calculator)

	identityHandler := handlers.NewIdentityHandler()
	studioHandler := handlers.NewStudioHandler(studioService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	statsHandler := handlers.NewStatsHandler(statsService)

	api := app.Group("/api", middleware.Identity(cfg.IdentitySecret))

	api.Get("/identity", identityHandler.Resolve)

	studios := api.Group("/studios")
	studios.Get("", studioHandler.ListStudios)
	studios.Post("", studioHandler.CreateStudio)
	studios.Put("/:id", studioHandler.UpdateStudio)
	studios.Delete("/:id", studioHandler.DeleteStudio)

	sessions := api.Group("/sessions")
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Post("", sessionHandler.CreateSession)
	sessions.Put("/:id", sessionHandler.UpdateSession)
	sessions.Delete("/:id", sessionHandler.DeleteSession)
	sessions.Post("/:id/attendees", sessionHandler.AddAttendee)
	sessions.Delete("/:id/attendees/:name", sessionHandler.RemoveAttendee)
	sessions.Put("/:id/mark-paid", sessionHandler.MarkPaid)

	stats := api.Group("/stats")
	stats.Get("", statsHandler.GetStats)
	stats.Get("/filtered", statsHandler.GetFilteredStats)

	return nil
}
