package storage

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"asset-tracking-api-server/internal/models"
)

type DealerRepository struct {
	DB *mongo.Database
}

func (r *DealerRepository) coll() *mongo.Collection {
	return r.DB.Collection(CollDealers)
}

func (r *DealerRepository) Insert(ctx context.Context, dealer *models.Dealer) error {
	dealer.DealerCode = strings.ToUpper(dealer.DealerCode)
	dealer.CreatedAt = time.Now()
	dealer.UpdatedAt = dealer.CreatedAt

	result, err := r.coll().InsertOne(ctx, dealer)
	if err != nil {
		return translateWriteErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		dealer.ID = oid
	}
	return nil
}

func (r *DealerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.coll().FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&dealer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dealer, nil
}

// FindByIDAny resolves a dealer regardless of its deleted flag. Scan views of
// soft-deleted or historic assets still need the owning dealer's display
// fields.
func (r *DealerRepository) FindByIDAny(ctx context.Context, id primitive.ObjectID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&dealer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dealer, nil
}

func (r *DealerRepository) ExistsByCode(ctx context.Context, dealerCode string) (bool, error) {
	count, err := r.coll().CountDocuments(ctx, bson.M{"dealerCode": strings.ToUpper(dealerCode)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DealerRepository) List(ctx context.Context) ([]models.Dealer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var dealers []models.Dealer
	if err := cursor.All(ctx, &dealers); err != nil {
		return nil, err
	}
	if dealers == nil {
		dealers = []models.Dealer{}
	}
	return dealers, nil
}

func (r *DealerRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, bson.M{"$set": set})
	if err != nil {
		return translateWriteErr(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DealerRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
