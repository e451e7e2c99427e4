package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"asset-tracking-api-server/internal/models"
)

// BrandRepository and ClientRepository only serve display-field joins on scan
// views and export headers; their CRUD lives with the admin tooling, outside
// this service's core.

type BrandRepository struct {
	DB *mongo.Database
}

func (r *BrandRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	var brand models.Brand
	err := r.DB.Collection(CollBrands).FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

type ClientRepository struct {
	DB *mongo.Database
}

func (r *ClientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := r.DB.Collection(CollClients).FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}
