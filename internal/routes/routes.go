package routes

import (
	"github.com/bilgehangul/gymbuddy-expo/internal/config"
	"github.com/bilgehangul/gymbuddy-expo/internal/handlers"
	"github.com/bilgehangul/gymbuddy-expo/internal/middleware"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/bilgehangul/gymbuddy-expo/internal/services"
	chatws "github.com/bilgehangul/gymbuddy-expo/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	themeRepo := repository.NewThemeRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseConfigured() {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	} else {
		storageService = services.NewLocalStorageService(cfg.UploadDir)
		app.Static("/uploads", cfg.UploadDir)
	}

	sessionService := services.NewSessionService(sessionRepo, userRepo)
	matchService := services.NewMatchService(db, matchRepo, userRepo)
	chatService := services.NewChatService(db, matchRepo, messageRepo)

	chatHub := chatws.NewHub()
	go chatHub.Run()

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret)
	profileHandler := handlers.NewProfileHandler(userRepo, storageService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	matchHandler := handlers.NewMatchHandler(matchService)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	themeHandler := handlers.NewThemeHandler(themeRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)

	api.Get("/themes", themeHandler.ListThemes)
	api.Get("/themes/:school", themeHandler.GetTheme)
	api.Get("/schools", themeHandler.ListSchools)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Get("/profile", profileHandler.GetProfile)
	users.Put("/profile", profileHandler.UpdateProfile)
	users.Post("/upload-photo", profileHandler.UploadPhoto)

	sessions := authProtected.Group("/sessions")
	sessions.Post("", sessionHandler.CreateSession)
	sessions.Get("", sessionHandler.Discover)
	sessions.Get("/my-sessions", sessionHandler.ListMySessions)
	sessions.Put("/:id", sessionHandler.UpdateSession)
	sessions.Delete("/:id", sessionHandler.CancelSession)

	matches := authProtected.Group("/matches")
	matches.Get("", matchHandler.ListMatches)
	matches.Post("", matchHandler.CreateMatch)
	matches.Post("/:id/accept", matchHandler.AcceptMatch)
	matches.Post("/:id/decline", matchHandler.DeclineMatch)

	messages := authProtected.Group("/messages")
	messages.Get("/:matchId", chatHandler.GetMessages)
	messages.Post("/:matchId", chatHandler.SendMessage)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
