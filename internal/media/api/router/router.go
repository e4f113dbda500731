package router

import (
	"media_upload_service/internal/media/api/handlers"
	"media_upload_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 注册媒體相关的路由, sessions may be nil
// @title Media Upload Service API
// @version 1.0
// @description API documentation for Media Upload Service
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(app *fiber.App, mediaHandler *handlers.MediaHandler, sessions middlewares.SessionChecker) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	app.Use(middlewares.Authenticate(sessions))
	app.Use(middlewares.RoutePolicy())

	// pages are rendered by the front end, these only answer after the routing policy let them through
	app.Get(middlewares.SignInPath, page("sign in"))
	app.Get(middlewares.SignUpPath, page("sign up"))
	app.Get(middlewares.HomePath, page("home"))

	api := app.Group("/api")
	api.Get("/videos", mediaHandler.ListVideos)
	api.Post("/image-upload", middlewares.RequireAuth(), mediaHandler.UploadImage)
	api.Post("/video-upload", middlewares.RequireAuth(), mediaHandler.UploadVideo)
}

func page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString(name)
	}
}
