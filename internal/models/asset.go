package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset statuses.
const (
	AssetStatusActive      = "ACTIVE"
	AssetStatusInactive    = "INACTIVE"
	AssetStatusMaintenance = "MAINTENANCE"
	AssetStatusDamaged     = "DAMAGED"
)

type Dimension struct {
	Length float64 `bson:"length" json:"length"`
	Height float64 `bson:"height" json:"height"`
	Depth  float64 `bson:"depth" json:"depth"`
	Unit   string  `bson:"unit" json:"unit"` // "cm", "inch", "mm", "m"
}

type Location struct {
	Address       string  `bson:"address,omitempty" json:"address,omitempty"`
	Latitude      float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	GoogleMapLink string  `bson:"googleMapLink,omitempty" json:"googleMapLink,omitempty"`
}

// Asset is a physical fixture owned by exactly one dealer. barcodeValue is
// globally unique among live assets and always stored upper-cased;
// barcodeImagePath is relative to the uploads root so the public base URL can
// change without a data migration.
type Asset struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FixtureNo        string              `bson:"fixtureNo" json:"fixtureNo"` // unique within its dealer
	AssetNo          string              `bson:"assetNo" json:"assetNo"`     // globally unique
	Dimension        Dimension           `bson:"dimension" json:"dimension"`
	StandType        string              `bson:"standType" json:"standType"`
	BrandID          *primitive.ObjectID `bson:"brandId,omitempty" json:"brandId,omitempty"`
	ClientID         *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	DealerID         primitive.ObjectID  `bson:"dealerId" json:"dealerId"`
	InstallationDate time.Time           `bson:"installationDate" json:"installationDate"`
	Location         Location            `bson:"location" json:"location"`
	BarcodeValue     string              `bson:"barcodeValue" json:"barcodeValue"`
	BarcodeImagePath string              `bson:"barcodeImagePath" json:"barcodeImagePath"`
	Images           []string            `bson:"images,omitempty" json:"images,omitempty"`
	Status           string              `bson:"status" json:"status"`
	IsDeleted        bool                `bson:"isDeleted" json:"isDeleted"`
	CreatedBy        primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	UpdatedBy        *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// BarcodeImageURL joins the stored relative path with the configured base URL.
func (a *Asset) BarcodeImageURL(baseURL string) string {
	if a.BarcodeImagePath == "" {
		return ""
	}
	return baseURL + "/" + a.BarcodeImagePath
}
