package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2eliot/Inefablestore/config"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/services"
)

// WithdrawalRepository stores payout requests in MongoDB. It implements
// services.WithdrawalStore.
type WithdrawalRepository struct {
	collection *mongo.Collection
}

func NewWithdrawalRepository(db *mongo.Client) *WithdrawalRepository {
	return &WithdrawalRepository{
		collection: config.GetCollection(db, "withdrawals"),
	}
}

func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	result, err := r.collection.InsertOne(ctx, withdrawal)
	if err != nil {
		return err
	}
	withdrawal.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *WithdrawalRepository) List(ctx context.Context, status string) ([]models.Withdrawal, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	withdrawals := []models.Withdrawal{}
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *WithdrawalRepository) ListByAffiliate(ctx context.Context, affiliateID primitive.ObjectID) ([]models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"affiliateId": affiliateID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	withdrawals := []models.Withdrawal{}
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// Decide claims a pending withdrawal with a conditional update; only one
// concurrent decision can win the claim.
func (r *WithdrawalRepository) Decide(ctx context.Context, id primitive.ObjectID, status string, processedAt time.Time) (*models.Withdrawal, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusPending}
	update := bson.M{"$set": bson.M{
		"status":      status,
		"processedAt": processedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var withdrawal models.Withdrawal
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&withdrawal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
			if countErr != nil {
				return nil, countErr
			}
			if count == 0 {
				return nil, services.ErrNotFound
			}
			return nil, services.ErrInvalidTransition
		}
		return nil, err
	}
	return &withdrawal, nil
}

// Reopen puts a claimed withdrawal back to pending so the operator can
// retry or reject it later.
func (r *WithdrawalRepository) Reopen(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":   bson.M{"status": models.WithdrawalStatusPending},
		"$unset": bson.M{"processedAt": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
