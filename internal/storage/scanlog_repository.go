package storage

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"asset-tracking-api-server/internal/models"
)

// ScanLogRepository appends telemetry rows. The collection is append-only;
// nothing in the service mutates or deletes rows once written.
type ScanLogRepository struct {
	DB *mongo.Database
}

func (r *ScanLogRepository) Append(ctx context.Context, entry *models.BarcodeScanLog) error {
	entry.BarcodeValue = strings.ToUpper(entry.BarcodeValue)
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = time.Now()
	}

	result, err := r.DB.Collection(CollScanLogs).InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}
