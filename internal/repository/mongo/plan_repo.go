package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// planDocument is the stored shape of a GeneratedPlan; the id is a native ObjectID.
type planDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Name        string             `bson:"name"`
	WorkoutPlan domain.WorkoutPlan `bson:"workoutPlan"`
	DietPlan    domain.DietPlan    `bson:"dietPlan"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d planDocument) toDomain() domain.GeneratedPlan {
	return domain.GeneratedPlan{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Name:        d.Name,
		WorkoutPlan: d.WorkoutPlan,
		DietPlan:    d.DietPlan,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

// mongoPlanRepository implements repository.PlanRepository and repository.PlanReader
type mongoPlanRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoPlanRepository creates a new plan repository over the "plans" collection.
func NewMongoPlanRepository(db *mongo.Database, log *logger.Logger) repository.PlanStore {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
		log:        log.With("component", "mongo_plan_repository"),
	}
}

// Create inserts the plan and, when it is active, deactivates the user's other active plans.
// Once the insert succeeds the plan id is returned; a failed deactivation is only logged.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.GeneratedPlan) (string, error) {
	if plan.UserID == "" || plan.Name == "" {
		return "", repository.ErrInvalidPlan
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	doc := planDocument{
		ID:          primitive.NewObjectID(),
		UserID:      plan.UserID,
		Name:        plan.Name,
		WorkoutPlan: plan.WorkoutPlan,
		DietPlan:    plan.DietPlan,
		IsActive:    plan.IsActive,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   now,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("failed to convert inserted plan ID")
	}

	if plan.IsActive {
		if err := r.deactivateOtherPlansForUser(ctx, plan.UserID, insertedID); err != nil {
			r.log.Warn("Failed to deactivate previous plans", "user_id", plan.UserID, "plan_id", insertedID.Hex(), "error", err)
		}
	}

	plan.ID = insertedID.Hex()
	return plan.ID, nil
}

// GetByID retrieves a single plan by its hex id. Malformed ids are reported as not found.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedPlan, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc planDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	plan := doc.toDomain()
	return &plan, nil
}

// GetByUserID returns all plans of a user, newest first.
func (r *mongoPlanRepository) GetByUserID(ctx context.Context, userID string) ([]domain.GeneratedPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []planDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	plans := make([]domain.GeneratedPlan, 0, len(docs))
	for _, d := range docs {
		plans = append(plans, d.toDomain())
	}
	return plans, nil
}

func (r *mongoPlanRepository) deactivateOtherPlansForUser(ctx context.Context, userID string, excludePlanID primitive.ObjectID) error {
	filter := bson.M{
		"userId":   userID,
		"isActive": true,
		"_id":      bson.M{"$ne": excludePlanID},
	}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsurePlanIndexes creates the indexes used by the read endpoints. Call during startup.
func EnsurePlanIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(planCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
