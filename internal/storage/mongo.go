package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollAssets   = "assets"
	CollDealers  = "dealers"
	CollUsers    = "users"
	CollBrands   = "brands"
	CollClients  = "clients"
	CollScanLogs = "barcodescanlogs"
)

// Connect opens a client and pings the deployment.
func Connect(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the service relies on. The partial unique
// index on live barcodeValue is the final arbiter against concurrent identity
// minting. It only covers live documents; keeping retired values of
// soft-deleted assets out of circulation is the availability check's job.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	assetIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "barcodeValue", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{
			Keys:    bson.D{{Key: "assetNo", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{
			Keys:    bson.D{{Key: "dealerId", Value: 1}, {Key: "fixtureNo", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{Keys: bson.D{{Key: "dealerId", Value: 1}}},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection(CollAssets).Indexes().CreateMany(ctx, assetIndexes); err != nil {
		return fmt.Errorf("failed to create asset indexes: %w", err)
	}

	dealerIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dealerCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
	}
	if _, err := db.Collection(CollDealers).Indexes().CreateMany(ctx, dealerIndexes); err != nil {
		return fmt.Errorf("failed to create dealer indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(CollUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	scanLogIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "scannedAt", Value: -1}, {Key: "dealerId", Value: 1}}},
		{Keys: bson.D{{Key: "scannedAt", Value: -1}, {Key: "assetId", Value: 1}}},
		{Keys: bson.D{{Key: "barcodeValue", Value: 1}, {Key: "scannedAt", Value: -1}}},
	}
	if _, err := db.Collection(CollScanLogs).Indexes().CreateMany(ctx, scanLogIndexes); err != nil {
		return fmt.Errorf("failed to create scan log indexes: %w", err)
	}

	return nil
}

// translateWriteErr maps driver errors onto the package sentinels.
func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
