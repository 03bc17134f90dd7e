package app

import (
	"context"
	"time"

	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/internal/chat/repository"
	"marketplace_chat_service/pkg/errs"
	"marketplace_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// MessageUseCase append, paginate and mark read inside one conversation
type MessageUseCase interface {
	Append(ctx context.Context, conversationID, senderID, content string) (*domain.ConversationView, error)
	ListMessages(ctx context.Context, conversationID, memberID string, page, limit int) ([]domain.ChatMessage, int, error)
	MarkRead(ctx context.Context, conversationID, memberID string) error
}

type messageUseCase struct {
	convRepo repository.ConversationRepository
	events   repository.EventPublisher
	views    *viewAssembler
}

// NewMessageUseCase init message use case, events may be nil
func NewMessageUseCase(
	convRepo repository.ConversationRepository,
	resolver repository.ParticipantResolver,
	listings repository.ListingDirectory,
	events repository.EventPublisher,
) MessageUseCase {
	return &messageUseCase{
		convRepo: convRepo,
		events:   events,
		views:    newViewAssembler(resolver, listings),
	}
}

// Append add a message to a conversation the sender participates in and
// return the updated conversation. The push and the last_activity bump are a
// single atomic document update.
func (uc *messageUseCase) Append(ctx context.Context, conversationID, senderID, content string) (*domain.ConversationView, error) {
	conv, err := uc.loadForParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	trimmed, err := domain.ValidateContent(content)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	msg := domain.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  senderID,
		Content:   trimmed,
		CreatedAt: now,
		IsRead:    false,
	}

	if err := uc.convRepo.PushMessage(ctx, conversationID, msg); err != nil {
		if errs.HasCode(err, errs.CodeNotFound) {
			return nil, err
		}
		return nil, errs.ErrStoreFailed("append", err)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.LastActivity = now
	conv.UpdatedAt = now

	uc.publish(ctx, domain.ChatEvent{
		Type:           domain.EventMessageAppended,
		ConversationID: conversationID,
		SenderID:       senderID,
		MessageID:      msg.ID,
		ListingID:      conv.ListingID,
		OccurredAt:     now,
	})

	return uc.views.assemble(ctx, conv, senderID), nil
}

// ListMessages tail paginated history: page 1 holds the newest limit messages,
// ascending order inside the page, out of range pages yield an empty slice
func (uc *messageUseCase) ListMessages(ctx context.Context, conversationID, memberID string, page, limit int) ([]domain.ChatMessage, int, error) {
	conv, err := uc.loadForParticipant(ctx, conversationID, memberID)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxMessageLimit {
		limit = defaultMessageLimit
	}

	msgs, total := conv.PageMessages(page, limit)
	return msgs, total, nil
}

// MarkRead flip every message from the counterpart to read. Idempotent.
func (uc *messageUseCase) MarkRead(ctx context.Context, conversationID, memberID string) error {
	if _, err := uc.loadForParticipant(ctx, conversationID, memberID); err != nil {
		return err
	}
	if err := uc.convRepo.MarkMessagesRead(ctx, conversationID, memberID); err != nil {
		if errs.HasCode(err, errs.CodeNotFound) {
			return err
		}
		return errs.ErrStoreFailed("mark read", err)
	}
	return nil
}

func (uc *messageUseCase) loadForParticipant(ctx context.Context, conversationID, memberID string) (*domain.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, errs.ErrStoreFailed("find", err)
	}
	if conv == nil {
		return nil, errs.ErrConversationNotFound
	}
	if !conv.HasParticipant(memberID) {
		return nil, errs.ErrNotParticipant
	}
	return conv, nil
}

func (uc *messageUseCase) publish(ctx context.Context, event domain.ChatEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		// delivery to the stream is not part of the append contract
		logger.Log.Warn("chat event publish failed",
			zap.String("type", string(event.Type)),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err))
	}
}
