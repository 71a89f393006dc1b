package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AudienceAdmin addresses a notification to the admin dashboard; any other
// audience value is an affiliate id hex.
const AudienceAdmin = "admin"

// Notification is an in-app notification record shown on the admin or
// affiliate dashboard.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Audience  string             `bson:"audience" json:"audience"` // "admin" or an affiliate id hex
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	Data      interface{}        `bson:"data,omitempty" json:"data,omitempty"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
