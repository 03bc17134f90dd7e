package repository

import (
	"context"
	"time"

	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/pkg/database"
	"marketplace_chat_service/pkg/logger"

	"go.uber.org/zap"
)

const participantCachePrefix = "chat:participant:"

type cachedParticipantResolver struct {
	inner ParticipantResolver
	cache database.RedisRepository[domain.ParticipantInfo]
	ttl   time.Duration
}

// NewCachedParticipantResolver cache-aside decorator over a ParticipantResolver.
// Display attributes change rarely, a short TTL keeps them fresh enough.
func NewCachedParticipantResolver(
	inner ParticipantResolver,
	cache database.RedisRepository[domain.ParticipantInfo],
	ttl time.Duration,
) ParticipantResolver {
	return &cachedParticipantResolver{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *cachedParticipantResolver) ResolveParticipant(ctx context.Context, memberID string) (*domain.ParticipantInfo, error) {
	key := participantCachePrefix + memberID

	if cached, err := r.cache.Get(ctx, key); err == nil && cached.ID != "" {
		return &cached, nil
	}

	info, err := r.inner.ResolveParticipant(ctx, memberID)
	if err != nil || info == nil {
		return info, err
	}

	// cache write is best-effort, a miss next time just hits the directory again
	if err := r.cache.Set(ctx, key, *info, r.ttl); err != nil {
		logger.Log.Warn("participant cache set failed",
			zap.String("member_id", memberID), zap.Error(err))
	}

	return info, nil
}
