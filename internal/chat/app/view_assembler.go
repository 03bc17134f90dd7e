package app

import (
	"context"

	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/internal/chat/repository"
	"marketplace_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// viewAssembler turn a conversation document into the enriched view returned
// to callers. Identity logic never depends on this step: resolver failures
// degrade to bare ids instead of failing the request.
type viewAssembler struct {
	resolver repository.ParticipantResolver
	listings repository.ListingDirectory
}

func newViewAssembler(resolver repository.ParticipantResolver, listings repository.ListingDirectory) *viewAssembler {
	return &viewAssembler{resolver: resolver, listings: listings}
}

func (a *viewAssembler) assemble(ctx context.Context, conv *domain.Conversation, viewerID string) *domain.ConversationView {
	view := &domain.ConversationView{
		ID:           conv.ID,
		LastMessage:  conv.LastMessage(),
		UnreadCount:  conv.UnreadFor(viewerID),
		LastActivity: conv.LastActivity,
		IsActive:     conv.IsActive,
		CreatedAt:    conv.CreatedAt,
	}

	for _, memberID := range conv.Participants {
		info, err := a.resolver.ResolveParticipant(ctx, memberID)
		if err != nil {
			logger.Log.Warn("participant resolve failed",
				zap.String("member_id", memberID), zap.Error(err))
			info = nil
		}
		if info == nil {
			info = &domain.ParticipantInfo{ID: memberID}
		}
		view.Participants = append(view.Participants, *info)
	}

	if conv.ListingID != "" {
		listing, err := a.listings.FindListing(ctx, conv.ListingID)
		if err != nil {
			logger.Log.Warn("listing resolve failed",
				zap.String("listing_id", conv.ListingID), zap.Error(err))
		} else if listing != nil {
			view.Listing = listing
		}
	}

	return view
}

func (a *viewAssembler) assembleAll(ctx context.Context, convs []domain.Conversation, viewerID string) []domain.ConversationView {
	views := make([]domain.ConversationView, 0, len(convs))
	for i := range convs {
		views = append(views, *a.assemble(ctx, &convs[i], viewerID))
	}
	return views
}
