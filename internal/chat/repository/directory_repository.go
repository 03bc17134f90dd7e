package repository

import (
	"context"
	"errors"

	"marketplace_chat_service/internal/chat/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ParticipantResolver resolve display attributes for a member id.
// Returns (nil, nil) when the member is unknown.
type ParticipantResolver interface {
	ResolveParticipant(ctx context.Context, memberID string) (*domain.ParticipantInfo, error)
}

// ListingDirectory look up a listing by id.
// Returns (nil, nil) when the listing is unknown.
type ListingDirectory interface {
	FindListing(ctx context.Context, listingID string) (*domain.ListingInfo, error)
}

// DirectoryRepository read-only access to the marketplace member and
// listing tables, display enrichment and availability checks only
type DirectoryRepository interface {
	ParticipantResolver
	ListingDirectory
}

type directoryRepository struct {
	db *pgxpool.Pool
}

// NewDirectoryRepository create a postgres backed DirectoryRepository
func NewDirectoryRepository(db *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) ResolveParticipant(ctx context.Context, memberID string) (*domain.ParticipantInfo, error) {
	row := r.db.QueryRow(ctx,
		"SELECT member_id, user_name, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(avatar_url, '') FROM member WHERE member_id = $1",
		memberID)

	var info domain.ParticipantInfo
	err := row.Scan(&info.ID, &info.UserName, &info.FirstName, &info.LastName, &info.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *directoryRepository) FindListing(ctx context.Context, listingID string) (*domain.ListingInfo, error) {
	row := r.db.QueryRow(ctx,
		"SELECT listing_id, title, price, COALESCE(image_url, ''), status FROM listing WHERE listing_id = $1",
		listingID)

	var info domain.ListingInfo
	err := row.Scan(&info.ID, &info.Title, &info.Price, &info.ImageURL, &info.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}
