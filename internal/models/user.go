package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin  = "ADMIN"
	RoleDealer = "DEALER"
	RoleClient = "CLIENT"
)

// User matches the document in MongoDB. DealerRef/ClientRef scope DEALER and
// CLIENT accounts to the tenant they may act for.
type User struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Password  string              `bson:"password" json:"-"`
	Role      string              `bson:"role" json:"role"`
	DealerRef *primitive.ObjectID `bson:"dealerRef,omitempty" json:"dealerRef,omitempty"`
	ClientRef *primitive.ObjectID `bson:"clientRef,omitempty" json:"clientRef,omitempty"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
	IsDeleted bool                `bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
