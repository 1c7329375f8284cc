package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"planhub/internal/model"
)

// IPlanRepository defines plan catalog persistence
type IPlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) (*model.Plan, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Plan, error)
	ListWithEnrollment(ctx context.Context) ([]*model.PlanWithEnrollment, error)
	Replace(ctx context.Context, plan *model.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanRepository implements plan catalog persistence
type PlanRepository struct {
	collection *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) IPlanRepository {
	return &PlanRepository{collection: db.Collection("plans")}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) (*model.Plan, error) {
	res, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		plan.ID = oid
	}
	return plan, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Plan, error) {
	var plan *model.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// ListWithEnrollment returns every plan with the number of accounts
// referencing it, computed with a $lookup against the users collection.
func (r *PlanRepository) ListWithEnrollment(ctx context.Context) ([]*model.PlanWithEnrollment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "plan",
			"as":           "enrolled",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"totalEnrolled": bson.M{"$size": "$enrolled"},
		}}},
		{{Key: "$project", Value: bson.M{"enrolled": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var plans []*model.PlanWithEnrollment
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) Replace(ctx context.Context, plan *model.Plan) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	return err
}

func (r *PlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
