package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is an end customer whose fixtures are hosted across one or more
// dealers.
type Client struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Company       string               `bson:"company,omitempty" json:"company,omitempty"`
	Address       string               `bson:"address,omitempty" json:"address,omitempty"`
	VATIN         string               `bson:"vatin,omitempty" json:"vatin,omitempty"`
	PlaceOfSupply string               `bson:"placeOfSupply,omitempty" json:"placeOfSupply,omitempty"`
	Country       string               `bson:"country,omitempty" json:"country,omitempty"`
	DealerIDs     []primitive.ObjectID `bson:"dealerIds,omitempty" json:"dealerIds,omitempty"`
	IsDeleted     bool                 `bson:"isDeleted" json:"isDeleted"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}
