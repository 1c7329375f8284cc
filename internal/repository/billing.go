package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planhub/internal/model"
)

// IBillingRepository defines checkout record and webhook event persistence
type IBillingRepository interface {
	CreateCheckout(ctx context.Context, rec *model.CheckoutRecord) (*model.CheckoutRecord, error)
	FindCheckoutBySessionID(ctx context.Context, sessionID string) (*model.CheckoutRecord, error)
	MarkCheckoutCompleted(ctx context.Context, sessionID string) error
	RecordEvent(ctx context.Context, eventID, eventType string) (bool, error)
	DeleteEvent(ctx context.Context, eventID string) error
	EnsureIndexes(ctx context.Context) error
}

// BillingRepository implements checkout and event persistence
type BillingRepository struct {
	checkouts *mongo.Collection
	events    *mongo.Collection
}

func NewBillingRepository(db *mongo.Database) IBillingRepository {
	return &BillingRepository{
		checkouts: db.Collection("checkout_sessions"),
		events:    db.Collection("webhook_events"),
	}
}

func (r *BillingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.checkouts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *BillingRepository) CreateCheckout(ctx context.Context, rec *model.CheckoutRecord) (*model.CheckoutRecord, error) {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Status = model.CheckoutPending
	res, err := r.checkouts.InsertOne(ctx, rec)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return rec, nil
}

func (r *BillingRepository) FindCheckoutBySessionID(ctx context.Context, sessionID string) (*model.CheckoutRecord, error) {
	var rec *model.CheckoutRecord
	err := r.checkouts.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *BillingRepository) MarkCheckoutCompleted(ctx context.Context, sessionID string) error {
	_, err := r.checkouts.UpdateOne(ctx, bson.M{"sessionId": sessionID}, bson.M{
		"$set": bson.M{"status": model.CheckoutCompleted, "updatedAt": time.Now()},
	})
	return err
}

// RecordEvent inserts a processed-event marker keyed by the Stripe event
// id. Returns false when the event was already recorded, which is how
// at-least-once webhook replays are detected.
func (r *BillingRepository) RecordEvent(ctx context.Context, eventID, eventType string) (bool, error) {
	_, err := r.events.InsertOne(ctx, model.WebhookEvent{
		ID:         eventID,
		Type:       eventType,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteEvent removes a processed-event marker, letting a redelivery of
// the event run its side effects again.
func (r *BillingRepository) DeleteEvent(ctx context.Context, eventID string) error {
	_, err := r.events.DeleteOne(ctx, bson.M{"_id": eventID})
	return err
}
