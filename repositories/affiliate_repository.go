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
	"github.com/2eliot/Inefablestore/utils"
)

// AffiliateRepository stores affiliates in MongoDB. It implements
// services.AffiliateStore and additionally carries the admin CRUD surface.
type AffiliateRepository struct {
	collection *mongo.Collection
}

func NewAffiliateRepository(db *mongo.Client) *AffiliateRepository {
	return &AffiliateRepository{
		collection: config.GetCollection(db, "affiliates"),
	}
}

func (r *AffiliateRepository) FindByCode(ctx context.Context, code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"codeLower": utils.NormalizeCode(code)}).Decode(&affiliate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &affiliate, nil
}

func (r *AffiliateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&affiliate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &affiliate, nil
}

func (r *AffiliateRepository) FindByEmail(ctx context.Context, email string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&affiliate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &affiliate, nil
}

func (r *AffiliateRepository) List(ctx context.Context) ([]models.Affiliate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	affiliates := []models.Affiliate{}
	if err := cursor.All(ctx, &affiliates); err != nil {
		return nil, err
	}
	return affiliates, nil
}

func (r *AffiliateRepository) Create(ctx context.Context, affiliate *models.Affiliate) error {
	affiliate.CodeLower = utils.NormalizeCode(affiliate.Code)
	affiliate.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, affiliate)
	if err != nil {
		return err
	}
	affiliate.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the mutable fields of an affiliate. Balance is only
// written when the update explicitly carries one; the credit and debit
// paths own it otherwise.
func (r *AffiliateRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *AffiliateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *AffiliateRepository) CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

// DebitBalance subtracts amount only when the current balance covers it,
// so the balance can never go negative even under concurrent approvals.
func (r *AffiliateRepository) DebitBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	filter := bson.M{
		"_id":     id,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return countErr
		}
		if count == 0 {
			return services.ErrNotFound
		}
		return services.ErrInsufficientFunds
	}
	return nil
}
