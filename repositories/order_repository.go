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

// OrderRepository stores orders in MongoDB. It implements
// services.OrderStore.
type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Client) *OrderRepository {
	return &OrderRepository{
		collection: config.GetCollection(db, "orders"),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, status, email string) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if email != "" {
		filter["email"] = email
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Decide transitions a pending order in a single conditional update so a
// concurrent decision race has exactly one winner.
func (r *OrderRepository) Decide(ctx context.Context, id primitive.ObjectID, status, deliveryCode string, deliveryCodes []string, processedAt time.Time) (*models.Order, error) {
	set := bson.M{
		"status":      status,
		"processedAt": processedAt,
	}
	if deliveryCode != "" {
		set["deliveryCode"] = deliveryCode
	}
	if len(deliveryCodes) > 0 {
		set["deliveryCodes"] = deliveryCodes
	}

	filter := bson.M{"_id": id, "status": models.OrderStatusPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the order does not exist or it was already decided.
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
	return &order, nil
}

// PruneHistory deletes a buyer's decided orders beyond the newest keep.
// Pending orders are never pruned.
func (r *OrderRepository) PruneHistory(ctx context.Context, email string, keep int) (int64, error) {
	filter := bson.M{
		"email":  email,
		"status": bson.M{"$ne": models.OrderStatusPending},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var stale []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, len(stale))
	for i, doc := range stale {
		ids[i] = doc.ID
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CountApproved counts approved orders attributed to an affiliate either by
// the resolved id or by the raw code stored on older orders.
func (r *OrderRepository) CountApproved(ctx context.Context, affiliateID primitive.ObjectID, code string) (int64, error) {
	filter := bson.M{
		"status": models.OrderStatusApproved,
		"$or": []bson.M{
			{"affiliateId": affiliateID},
			{"referralCode": code},
		},
	}
	return r.collection.CountDocuments(ctx, filter)
}
