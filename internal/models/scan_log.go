package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scan types.
const (
	ScanTypePublic        = "PUBLIC"
	ScanTypeAuthenticated = "AUTHENTICATED"
)

// BarcodeScanLog is append-only: one row per successful scan, never mutated.
// barcodeValue is denormalized at scan time so history stays meaningful even
// after an identity regeneration.
type BarcodeScanLog struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AssetID      primitive.ObjectID  `bson:"assetId" json:"assetId"`
	BarcodeValue string              `bson:"barcodeValue" json:"barcodeValue"`
	DealerID     primitive.ObjectID  `bson:"dealerId" json:"dealerId"`
	ClientID     *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	ScanType     string              `bson:"scanType" json:"scanType"`
	ScannedAt    time.Time           `bson:"scannedAt" json:"scannedAt"`
	IPAddress    string              `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent    string              `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Referer      string              `bson:"referer,omitempty" json:"referer,omitempty"`
}
