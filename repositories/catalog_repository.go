package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2eliot/Inefablestore/config"
	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/services"
)

// CatalogRepository stores packages and their items in MongoDB. It
// implements services.Catalog.
type CatalogRepository struct {
	packages *mongo.Collection
	items    *mongo.Collection
}

func NewCatalogRepository(db *mongo.Client) *CatalogRepository {
	return &CatalogRepository{
		packages: config.GetCollection(db, "packages"),
		items:    config.GetCollection(db, "package_items"),
	}
}

func (r *CatalogRepository) GetPackage(ctx context.Context, id primitive.ObjectID) (*models.StorePackage, error) {
	var pkg models.StorePackage
	err := r.packages.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *CatalogRepository) GetItem(ctx context.Context, id primitive.ObjectID) (*models.PackageItem, error) {
	var item models.PackageItem
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository) ListActiveItems(ctx context.Context, packageID primitive.ObjectID) ([]models.PackageItem, error) {
	filter := bson.M{"packageId": packageID, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})

	cursor, err := r.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.PackageItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CatalogRepository) ListPackages(ctx context.Context) ([]models.StorePackage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.packages.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	packages := []models.StorePackage{}
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

