package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dealer owns assets. dealerCode is the short uppercase token used as the
// human-readable prefix of every barcode value minted for its assets.
type Dealer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DealerCode      string             `bson:"dealerCode" json:"dealerCode"`
	Name            string             `bson:"name" json:"name"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	ShopName        string             `bson:"shopName,omitempty" json:"shopName,omitempty"`
	VATRegistration string             `bson:"vatRegistration,omitempty" json:"vatRegistration,omitempty"`
	Location        Location           `bson:"location,omitempty" json:"location,omitempty"`
	UserID          primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	IsDeleted       bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedBy       primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
