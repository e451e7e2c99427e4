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

// AssetRepository is the single storage surface the identity core depends on.
type AssetRepository struct {
	DB *mongo.Database
}

func (r *AssetRepository) coll() *mongo.Collection {
	return r.DB.Collection(CollAssets)
}

// Insert persists a new asset. Duplicate-key violations (assetNo, fixtureNo
// per dealer, or a barcode race that slipped past the availability check) come
// back as ErrDuplicateKey.
func (r *AssetRepository) Insert(ctx context.Context, asset *models.Asset) error {
	asset.BarcodeValue = strings.ToUpper(asset.BarcodeValue)
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = asset.CreatedAt

	result, err := r.coll().InsertOne(ctx, asset)
	if err != nil {
		return translateWriteErr(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		asset.ID = oid
	}
	return nil
}

// FindByID returns a live asset by its object id.
func (r *AssetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var asset models.Asset
	err := r.coll().FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindByBarcode looks up by exact upper-cased value among ALL documents,
// soft-deleted included, so callers can distinguish "never existed" from
// "was deleted".
func (r *AssetRepository) FindByBarcode(ctx context.Context, barcodeValue string) (*models.Asset, error) {
	var asset models.Asset
	err := r.coll().FindOne(ctx, bson.M{"barcodeValue": strings.ToUpper(barcodeValue)}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// ExistsByBarcode reports whether any document, deleted or not, holds the
// value. Retired values are never reused, so deleted documents count. exclude
// removes one asset from consideration (used during regeneration so an asset
// never collides with itself).
func (r *AssetRepository) ExistsByBarcode(ctx context.Context, barcodeValue string, exclude *primitive.ObjectID) (bool, error) {
	filter := bson.M{"barcodeValue": strings.ToUpper(barcodeValue)}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	count, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByAssetNo checks the global asset number among live documents.
func (r *AssetRepository) ExistsByAssetNo(ctx context.Context, assetNo string) (bool, error) {
	count, err := r.coll().CountDocuments(ctx, bson.M{"assetNo": assetNo, "isDeleted": false})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByFixtureNo checks the per-dealer fixture number among live documents.
func (r *AssetRepository) ExistsByFixtureNo(ctx context.Context, dealerID primitive.ObjectID, fixtureNo string) (bool, error) {
	count, err := r.coll().CountDocuments(ctx, bson.M{"dealerId": dealerID, "fixtureNo": fixtureNo, "isDeleted": false})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateIdentity swaps barcodeValue and barcodeImagePath in one write. Called
// only after the new artifact is confirmed on disk.
func (r *AssetRepository) UpdateIdentity(ctx context.Context, id primitive.ObjectID, barcodeValue, imagePath string, updatedBy primitive.ObjectID) error {
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, bson.M{"$set": bson.M{
		"barcodeValue":     strings.ToUpper(barcodeValue),
		"barcodeImagePath": imagePath,
		"updatedBy":        updatedBy,
		"updatedAt":        time.Now(),
	}})
	return translateWriteErr(err)
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	DealerID  *primitive.ObjectID
	BrandID   *primitive.ObjectID
	Status    string
	Search    string // matches fixtureNo, assetNo or barcodeValue
	StartDate *time.Time
	EndDate   *time.Time
	Page      int64
	Limit     int64
}

// List returns a page of live assets plus the total match count.
func (r *AssetRepository) List(ctx context.Context, f ListFilter) ([]models.Asset, int64, error) {
	query := bson.M{"isDeleted": false}
	if f.DealerID != nil {
		query["dealerId"] = *f.DealerID
	}
	if f.BrandID != nil {
		query["brandId"] = *f.BrandID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Search != "" {
		query["$or"] = bson.A{
			bson.M{"fixtureNo": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"assetNo": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"barcodeValue": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.StartDate != nil || f.EndDate != nil {
		dateRange := bson.M{}
		if f.StartDate != nil {
			dateRange["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			dateRange["$lte"] = *f.EndDate
		}
		query["installationDate"] = dateRange
	}

	total, err := r.coll().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, 0, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, total, nil
}

// ListByDealer returns all live assets of one dealer, newest first.
func (r *AssetRepository) ListByDealer(ctx context.Context, dealerID primitive.ObjectID) ([]models.Asset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, bson.M{"dealerId": dealerID, "isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// ListByIDs returns the live assets among the given ids, newest first.
func (r *AssetRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Asset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// UpdateFields applies a partial update to a live asset.
func (r *AssetRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
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

// SoftDelete marks the asset deleted. The document and its barcode value stay
// behind so scans can answer "deleted" instead of "unknown".
func (r *AssetRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, updatedBy primitive.ObjectID) error {
	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedBy": updatedBy,
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

// AddImages appends uploaded photo URLs to a live asset.
func (r *AssetRepository) AddImages(ctx context.Context, id primitive.ObjectID, urls []string) error {
	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, bson.M{
		"$push": bson.M{"images": bson.M{"$each": urls}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
