package handlers

import (
	"marketplace_chat_service/internal/chat/app"
	"marketplace_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler 处理对话相关的 HTTP 请求
type ChatHandler struct {
	ConversationUC app.ConversationUseCase
	MessageUC      app.MessageUseCase
}

// NewChatHandler create ChatHandler
func NewChatHandler(conversationUC app.ConversationUseCase, messageUC app.MessageUseCase) *ChatHandler {
	return &ChatHandler{
		ConversationUC: conversationUC,
		MessageUC:      messageUC,
	}
}

func callerID(c *fiber.Ctx) (string, bool) {
	memberID, ok := c.Locals(middlewares.TokenMemberID).(string)
	return memberID, ok && memberID != ""
}

func pagination(page, limit int, total int64) fiber.Map {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return fiber.Map{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": pages,
	}
}

// ListConversations list the caller's conversations
// @Summary List conversations
// @Description Active conversations of the caller, most recent activity first
// @Tags Chat
// @Produce json
// @Param page query int false "Page number, min 1"
// @Param limit query int false "Page size, 1-50"
// @Success 200 {object} string "conversation list"
// @Failure 401 {object} string "missing token"
// @Router /chat [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	views, total, err := h.ConversationUC.ListForMember(c.Context(), memberID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"conversations": views,
			"pagination":    pagination(page, limit, total),
		},
	})
}

// GetConversation fetch one conversation with its messages
// @Summary Get conversation
// @Description Participant-only, marks the caller's unseen messages read
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} string "conversation"
// @Failure 403 {object} string "not a participant"
// @Failure 404 {object} string "not found"
// @Router /chat/{id} [get]
func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	view, err := h.ConversationUC.GetByID(c.Context(), c.Params("id"), memberID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"conversation": view},
	})
}

// CreateConversation get or create the conversation with a counterparty
// @Summary Get or create conversation
// @Description Idempotent, one conversation per participant pair
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} string "conversation"
// @Failure 400 {object} string "invalid request"
// @Router /chat [post]
func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	type request struct {
		CounterpartyID string `json:"counterparty_id"`
		ListingID      string `json:"listing_id"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request",
		})
	}

	view, err := h.ConversationUC.GetOrCreate(c.Context(), memberID, req.CounterpartyID, req.ListingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"conversation": view},
	})
}

// SendMessage append a message to a conversation
// @Summary Send message
// @Description Participant-only, content 1-1000 characters
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} string "updated conversation"
// @Failure 400 {object} string "invalid content"
// @Failure 403 {object} string "not a participant"
// @Router /chat/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	type request struct {
		Content string `json:"content"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request",
		})
	}

	view, err := h.MessageUC.Append(c.Context(), c.Params("id"), memberID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "message sent successfully",
		"data":    fiber.Map{"conversation": view},
	})
}

// ListMessages paginated message history, newest page first
// @Summary List messages
// @Description Tail pagination: page 1 holds the newest messages
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation id"
// @Param page query int false "Page number, min 1"
// @Param limit query int false "Page size, 1-100"
// @Success 200 {object} string "messages"
// @Failure 403 {object} string "not a participant"
// @Router /chat/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	msgs, total, err := h.MessageUC.ListMessages(c.Context(), c.Params("id"), memberID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"messages":   msgs,
			"pagination": pagination(page, limit, int64(total)),
		},
	})
}

// MarkRead mark counterpart messages as read
// @Summary Mark read
// @Description Idempotent read-state transition
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} string "marked"
// @Failure 403 {object} string "not a participant"
// @Router /chat/{id}/read [put]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := h.MessageUC.MarkRead(c.Context(), c.Params("id"), memberID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "messages marked as read",
	})
}

// DeleteConversation soft delete a conversation
// @Summary Delete conversation
// @Description Sets is_active=false, data is retained
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} string "deleted"
// @Failure 403 {object} string "not a participant"
// @Router /chat/{id} [delete]
func (h *ChatHandler) DeleteConversation(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := h.ConversationUC.Deactivate(c.Context(), c.Params("id"), memberID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "conversation deleted successfully",
	})
}
