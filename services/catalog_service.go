package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/2eliot/Inefablestore/models"
)

// Catalog provides read access to packages and their purchasable items.
type Catalog interface {
	// GetPackage returns a package by id, or ErrNotFound.
	GetPackage(ctx context.Context, id primitive.ObjectID) (*models.StorePackage, error)
	// GetItem returns an item by id, or ErrNotFound.
	GetItem(ctx context.Context, id primitive.ObjectID) (*models.PackageItem, error)
	// ListActiveItems returns the active items of a package ordered by
	// price ascending.
	ListActiveItems(ctx context.Context, packageID primitive.ObjectID) ([]models.PackageItem, error)
}
