package router

import (
	"marketplace_chat_service/internal/chat/handlers"
	"marketplace_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 注册对话相关的路由
// @title Marketplace Chat Service API
// @version 1.0
// @description API documentation for Marketplace Chat Service
// @BasePath /
func RegisterRoutes(app *fiber.App, chatHandler *handlers.ChatHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	chatRoutes := app.Group("/chat")
	chatRoutes.Use(middlewares.JWTMiddleware())

	chatRoutes.Get("/", chatHandler.ListConversations)
	chatRoutes.Post("/", chatHandler.CreateConversation)
	chatRoutes.Get("/:id", chatHandler.GetConversation)
	chatRoutes.Delete("/:id", chatHandler.DeleteConversation)
	chatRoutes.Post("/:id/messages", chatHandler.SendMessage)
	chatRoutes.Get("/:id/messages", chatHandler.ListMessages)
	chatRoutes.Put("/:id/read", chatHandler.MarkRead)
}
