package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package categories. Mobile top-ups use the flat discount scheme; gift
// cards use the tiered per-item schedule.
const (
	CategoryMobile = "mobile"
	CategoryGift   = "gift"
)

// StorePackage is a storefront entry (a game or a gift-card brand). The
// catalog is read-only from the ledger's point of view.
type StorePackage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImagePath   string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PackageItem is one purchasable denomination inside a package.
type PackageItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PackageID primitive.ObjectID `bson:"packageId" json:"packageId"`
	Title     string             `bson:"title" json:"title"`
	Price     float64            `bson:"price" json:"price"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
