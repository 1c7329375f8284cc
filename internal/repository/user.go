package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planhub/internal/model"
)

// ErrSeatsExhausted is returned by AddMember when the roster is already
// at the plan's seat limit at commit time.
var ErrSeatsExhausted = errors.New("seat limit reached")

// IUserRepository defines account persistence
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	FindOrgAdmins(ctx context.Context) ([]*model.User, error)
	CountByPlan(ctx context.Context, planID primitive.ObjectID) (int64, error)
	UpdatePlan(ctx context.Context, id, planID primitive.ObjectID, validUntil time.Time) error
	UpdatePlanMany(ctx context.Context, ids []primitive.ObjectID, planID primitive.ObjectID, validUntil time.Time) error
	AddMember(ctx context.Context, adminID primitive.ObjectID, seatLimit int, member *model.User) (*model.User, error)
	EnsureIndexes(ctx context.Context) error
}

// UserRepository implements account persistence
type UserRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) IUserRepository {
	return &UserRepository{client: client, collection: db.Collection("users")}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Members == nil {
		user.Members = []primitive.ObjectID{}
	}
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user *model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user *model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindOrgAdmins returns every subscription-admin account. These are the
// "organizations" of the platform owner's view.
func (r *UserRepository) FindOrgAdmins(ctx context.Context) ([]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"subscriptionAdmin": true, "role": model.RoleUser})
	if err != nil {
		return nil, err
	}
	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) CountByPlan(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"plan": planID})
}

func (r *UserRepository) UpdatePlan(ctx context.Context, id, planID primitive.ObjectID, validUntil time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"plan": planID, "valid": validUntil, "updatedAt": time.Now()},
	})
	return err
}

func (r *UserRepository) UpdatePlanMany(ctx context.Context, ids []primitive.ObjectID, planID primitive.ObjectID, validUntil time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{"plan": planID, "valid": validUntil, "updatedAt": time.Now()},
	})
	return err
}

// AddMember inserts a member document and appends its id to the admin's
// roster inside a single transaction. The roster push re-checks the
// seat limit, so concurrent adds cannot exceed it.
func (r *UserRepository) AddMember(ctx context.Context, adminID primitive.ObjectID, seatLimit int, member *model.User) (*model.User, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		member.ID = primitive.NewObjectID()
		member.CreatedAt = now
		member.UpdatedAt = now
		if member.Members == nil {
			member.Members = []primitive.ObjectID{}
		}
		if _, err := r.collection.InsertOne(sc, member); err != nil {
			return nil, err
		}

		res, err := r.collection.UpdateOne(sc,
			bson.M{
				"_id":   adminID,
				"$expr": bson.M{"$lt": bson.A{bson.M{"$size": "$members"}, seatLimit}},
			},
			bson.M{
				"$push": bson.M{"members": member.ID},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrSeatsExhausted
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}
