package repository

import (
	"context"

	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository persistence boundary for conversation documents.
// Find methods return (nil, nil) when nothing matches, a miss is normal
// control flow for the get-or-create path.
type ConversationRepository interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	FindByParticipants(ctx context.Context, pair domain.ParticipantPair) (*domain.Conversation, error)
	RewriteParticipants(ctx context.Context, conversationID string, pair domain.ParticipantPair) error
	AttachListing(ctx context.Context, conversationID, listingID string) error
	PushMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error
	SetActive(ctx context.Context, conversationID string, active bool) error
	FindForParticipant(ctx context.Context, memberID string, skip, limit int64) ([]domain.Conversation, error)
	CountForParticipant(ctx context.Context, memberID string) (int64, error)
}

type conversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository create a mongo backed ConversationRepository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{
		coll: db.Collection("conversations"),
	}
}

// EnsureIndexes declare the pair uniqueness constraint plus the query indexes.
// The unique index lives on the scalar pair_key, not on the participants array:
// array indexes are order sensitive in mongo, which is exactly the defect the
// canonical pair key exists to avoid.
func (r *conversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "last_activity", Value: -1}}},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	})
	return err
}

// Insert create a conversation document. A duplicate pair_key means a
// concurrent caller won the race, reported as ErrConversationExists.
func (r *conversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	_, err := r.coll.InsertOne(ctx, conv)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrConversationExists
		}
		return err
	}
	return nil
}

// FindByID find conversation by id
func (r *conversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.coll.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipants find the conversation for a pair by set equality.
// Historical documents may hold the pair in either order, so the filter
// matches the unordered set as well as the canonical tuple.
func (r *conversationRepository) FindByParticipants(ctx context.Context, pair domain.ParticipantPair) (*domain.Conversation, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"participants": bson.M{"$all": pair.Members(), "$size": 2}},
			{"participants": pair.Members()},
		},
	}
	var conv domain.Conversation
	err := r.coll.FindOne(ctx, filter).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// RewriteParticipants set participants to canonical order and backfill pair_key,
// the lazy self-healing step for legacy documents
func (r *conversationRepository) RewriteParticipants(ctx context.Context, conversationID string, pair domain.ParticipantPair) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{
			"participants": pair.Members(),
			"pair_key":     pair.Key(),
		}},
	)
	return err
}

// AttachListing set the listing reference only when the conversation has none,
// first listing wins
func (r *conversationRepository) AttachListing(ctx context.Context, conversationID, listingID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": conversationID,
			"$or": []bson.M{
				{"listing_id": bson.M{"$exists": false}},
				{"listing_id": ""},
			},
		},
		bson.M{"$set": bson.M{"listing_id": listingID}},
	)
	return err
}

// PushMessage append one message and bump last_activity in a single atomic
// document update, the store linearizes appends to the same conversation
func (r *conversationRepository) PushMessage(ctx context.Context, conversationID string, msg domain.ChatMessage) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set": bson.M{
				"last_activity": msg.CreatedAt,
				"updated_at":    msg.CreatedAt,
			},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrConversationNotFound
	}
	return nil
}

// MarkMessagesRead flip is_read on every message the reader did not send.
// Array-filtered update, false to true only, naturally idempotent.
func (r *conversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"messages.$[m].is_read": true}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"m.sender_id": bson.M{"$ne": readerID}, "m.is_read": false},
			},
		}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrConversationNotFound
	}
	return nil
}

// SetActive soft delete / restore
func (r *conversationRepository) SetActive(ctx context.Context, conversationID string, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrConversationNotFound
	}
	return nil
}

// FindForParticipant list active conversations for a member,
// most recent activity first
func (r *conversationRepository) FindForParticipant(ctx context.Context, memberID string, skip, limit int64) ([]domain.Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_activity", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{"participants": memberID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var convs []domain.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// CountForParticipant total active conversations for a member
func (r *conversationRepository) CountForParticipant(ctx context.Context, memberID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"participants": memberID, "is_active": true})
}
