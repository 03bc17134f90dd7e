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
	defaultConversationLimit = 20
	maxConversationLimit     = 50
)

// ConversationUseCase conversation identity, listing and lifecycle operations
type ConversationUseCase interface {
	GetOrCreate(ctx context.Context, requesterID, counterpartyID, listingID string) (*domain.ConversationView, error)
	ListForMember(ctx context.Context, memberID string, page, limit int) ([]domain.ConversationView, int64, error)
	GetByID(ctx context.Context, conversationID, memberID string) (*domain.ConversationView, error)
	Deactivate(ctx context.Context, conversationID, memberID string) error
}

type conversationUseCase struct {
	convRepo repository.ConversationRepository
	listings repository.ListingDirectory
	events   repository.EventPublisher
	views    *viewAssembler
}

// NewConversationUseCase init conversation use case, events may be nil
func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	resolver repository.ParticipantResolver,
	listings repository.ListingDirectory,
	events repository.EventPublisher,
) ConversationUseCase {
	return &conversationUseCase{
		convRepo: convRepo,
		listings: listings,
		events:   events,
		views:    newViewAssembler(resolver, listings),
	}
}

// GetOrCreate return the single conversation for a participant pair, creating
// it when absent. Safe under concurrent callers: the store's uniqueness
// constraint on the canonical pair is the sole arbiter of who wins, a losing
// insert is converted into a re-read.
func (uc *conversationUseCase) GetOrCreate(ctx context.Context, requesterID, counterpartyID, listingID string) (*domain.ConversationView, error) {
	pair, err := domain.NewParticipantPair(requesterID, counterpartyID)
	if err != nil {
		return nil, err
	}

	conv, err := uc.convRepo.FindByParticipants(ctx, pair)
	if err != nil {
		return nil, errs.ErrStoreFailed("lookup", err)
	}
	if conv != nil {
		uc.healExisting(ctx, conv, pair, listingID)
		return uc.views.assemble(ctx, conv, requesterID), nil
	}

	// New thread about a listing: reject when the listing is gone or closed.
	// Existing threads above are returned regardless of listing state.
	if listingID != "" {
		if err := uc.checkListingAvailable(ctx, listingID); err != nil {
			return nil, err
		}
	}

	now := time.Now().Unix()
	conv = &domain.Conversation{
		ID:           uuid.New().String(),
		Participants: pair.Members(),
		PairKey:      pair.Key(),
		ListingID:    listingID,
		Messages:     []domain.ChatMessage{},
		LastActivity: now,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.convRepo.Insert(ctx, conv)
	if err == nil {
		uc.publish(ctx, domain.ChatEvent{
			Type:           domain.EventConversationCreated,
			ConversationID: conv.ID,
			SenderID:       requesterID,
			ListingID:      listingID,
			OccurredAt:     now,
		})
		return uc.views.assemble(ctx, conv, requesterID), nil
	}

	if !errs.HasCode(err, errs.CodeAlreadyExists) {
		return nil, errs.ErrStoreFailed("insert", err)
	}

	// A concurrent caller won the race. Not an error: the constraint makes the
	// winner discoverable immediately, so re-read exactly once.
	winner, lookupErr := uc.convRepo.FindByParticipants(ctx, pair)
	if lookupErr != nil {
		return nil, errs.ErrStoreFailed("post-conflict lookup", lookupErr)
	}
	if winner == nil {
		internalErr := errs.ErrPairIndexBroken(err)
		logger.Log.Error("pair constraint violated but winner not found",
			zap.String("pair_key", pair.Key()),
			zap.Error(err),
		)
		return nil, internalErr
	}
	uc.healExisting(ctx, winner, pair, listingID)
	return uc.views.assemble(ctx, winner, requesterID), nil
}

// healExisting best-effort maintenance on an existing conversation: rewrite
// legacy participant ordering to canonical form and attach the first listing
// reference when none is set. Failures are logged and never block the read.
func (uc *conversationUseCase) healExisting(ctx context.Context, conv *domain.Conversation, pair domain.ParticipantPair, listingID string) {
	if !pair.InCanonicalOrder(conv.Participants) || conv.PairKey != pair.Key() {
		if err := uc.convRepo.RewriteParticipants(ctx, conv.ID, pair); err != nil {
			logger.Log.Warn("canonical rewrite failed",
				zap.String("conversation_id", conv.ID), zap.Error(err))
		} else {
			conv.Participants = pair.Members()
			conv.PairKey = pair.Key()
		}
	}

	if conv.ListingID == "" && listingID != "" {
		if err := uc.convRepo.AttachListing(ctx, conv.ID, listingID); err != nil {
			logger.Log.Warn("listing attach failed",
				zap.String("conversation_id", conv.ID), zap.Error(err))
		} else {
			conv.ListingID = listingID
		}
	}
}

func (uc *conversationUseCase) checkListingAvailable(ctx context.Context, listingID string) error {
	listing, err := uc.listings.FindListing(ctx, listingID)
	if err != nil {
		return errs.Wrap(errs.CodeInternal, "listing lookup failed", err)
	}
	if listing == nil {
		return errs.ErrListingNotFound
	}
	if listing.Status != domain.ListingStatusAvailable {
		return errs.ErrListingUnavailable
	}
	return nil
}

// ListForMember active conversations for a member, most recent activity first
func (uc *conversationUseCase) ListForMember(ctx context.Context, memberID string, page, limit int) ([]domain.ConversationView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxConversationLimit {
		limit = defaultConversationLimit
	}

	skip := int64(page-1) * int64(limit)
	convs, err := uc.convRepo.FindForParticipant(ctx, memberID, skip, int64(limit))
	if err != nil {
		return nil, 0, errs.ErrStoreFailed("list", err)
	}
	total, err := uc.convRepo.CountForParticipant(ctx, memberID)
	if err != nil {
		return nil, 0, errs.ErrStoreFailed("count", err)
	}

	return uc.views.assembleAll(ctx, convs, memberID), total, nil
}

// GetByID fetch one conversation for a participant, marking the caller's
// unseen messages read as a side effect
func (uc *conversationUseCase) GetByID(ctx context.Context, conversationID, memberID string) (*domain.ConversationView, error) {
	conv, err := uc.loadForParticipant(ctx, conversationID, memberID)
	if err != nil {
		return nil, err
	}

	// read-state on the get path is best-effort, PUT /read is the
	// authoritative operation and propagates failures
	if conv.UnreadFor(memberID) > 0 {
		if err := uc.convRepo.MarkMessagesRead(ctx, conversationID, memberID); err != nil {
			logger.Log.Warn("mark read on get failed",
				zap.String("conversation_id", conversationID), zap.Error(err))
		} else {
			for i := range conv.Messages {
				if conv.Messages[i].SenderID != memberID {
					conv.Messages[i].IsRead = true
				}
			}
		}
	}

	return uc.views.assemble(ctx, conv, memberID), nil
}

// Deactivate soft delete, data is retained and the pair invariant still holds
func (uc *conversationUseCase) Deactivate(ctx context.Context, conversationID, memberID string) error {
	if _, err := uc.loadForParticipant(ctx, conversationID, memberID); err != nil {
		return err
	}
	if err := uc.convRepo.SetActive(ctx, conversationID, false); err != nil {
		if errs.HasCode(err, errs.CodeNotFound) {
			return err
		}
		return errs.ErrStoreFailed("deactivate", err)
	}
	return nil
}

// loadForParticipant fetch a conversation and enforce participant-only access
func (uc *conversationUseCase) loadForParticipant(ctx context.Context, conversationID, memberID string) (*domain.Conversation, error) {
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

func (uc *conversationUseCase) publish(ctx context.Context, event domain.ChatEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		logger.Log.Warn("chat event publish failed",
			zap.String("type", string(event.Type)),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err))
	}
}
