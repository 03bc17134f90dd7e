package app

import (
	"context"

	"marketplace_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// EnsureIndexes moke ensure indexes
func (m *MockConversationRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Insert moke insert conversation
func (m *MockConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByID moke find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipants moke find conversation by participant pair
func (m *MockConversationRepository) FindByParticipants(ctx context.Context, pair domain.ParticipantPair) (*domain.Conversation, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// RewriteParticipants moke canonical rewrite
func (m *MockConversationRepository) RewriteParticipants(ctx context.Context, conversationID string, pair domain.ParticipantPair) error {
	args := m.Called(ctx, conversationID, pair)
	return args.Error(0)
}

// AttachListing moke attach listing reference
func (m *MockConversationRepository) AttachListing(ctx context.Context, conversationID, listingID string) error {
	args := m.Called(ctx, conversationID, listingID)
	return args.Error(0)
}

// PushMessage moke push message
func (m *MockConversationRepository) PushMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error {
	args := m.Called(ctx, conversationID, msg)
	return args.Error(0)
}

// MarkMessagesRead moke mark messages read
func (m *MockConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

// SetActive moke soft delete / restore
func (m *MockConversationRepository) SetActive(ctx context.Context, conversationID string, active bool) error {
	args := m.Called(ctx, conversationID, active)
	return args.Error(0)
}

// FindForParticipant moke list conversations for a member
func (m *MockConversationRepository) FindForParticipant(ctx context.Context, memberID string, skip, limit int64) ([]domain.Conversation, error) {
	args := m.Called(ctx, memberID, skip, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountForParticipant moke count conversations for a member
func (m *MockConversationRepository) CountForParticipant(ctx context.Context, memberID string) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

// MockParticipantResolver Mock ParticipantResolver
type MockParticipantResolver struct {
	mock.Mock
}

// ResolveParticipant moke resolve member display attributes
func (m *MockParticipantResolver) ResolveParticipant(ctx context.Context, memberID string) (*domain.ParticipantInfo, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ParticipantInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockListingDirectory Mock ListingDirectory
type MockListingDirectory struct {
	mock.Mock
}

// FindListing moke find listing by id
func (m *MockListingDirectory) FindListing(ctx context.Context, listingID string) (*domain.ListingInfo, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ListingInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventPublisher Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish moke publish chat event
func (m *MockEventPublisher) Publish(ctx context.Context, event domain.ChatEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
