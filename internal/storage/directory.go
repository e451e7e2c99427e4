package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"asset-tracking-api-server/internal/models"
)

// Directory bundles the repositories behind the lookup surface the scan
// resolver consumes.
type Directory struct {
	Assets   *AssetRepository
	Dealers  *DealerRepository
	Brands   *BrandRepository
	Clients  *ClientRepository
	Users    *UserRepository
	ScanLogs *ScanLogRepository
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{
		Assets:   &AssetRepository{DB: db},
		Dealers:  &DealerRepository{DB: db},
		Brands:   &BrandRepository{DB: db},
		Clients:  &ClientRepository{DB: db},
		Users:    &UserRepository{DB: db},
		ScanLogs: &ScanLogRepository{DB: db},
	}
}

func (d *Directory) AssetByBarcode(ctx context.Context, barcodeValue string) (*models.Asset, error) {
	return d.Assets.FindByBarcode(ctx, barcodeValue)
}

func (d *Directory) DealerByID(ctx context.Context, id primitive.ObjectID) (*models.Dealer, error) {
	return d.Dealers.FindByIDAny(ctx, id)
}

func (d *Directory) BrandByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	return d.Brands.FindByID(ctx, id)
}

func (d *Directory) ClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	return d.Clients.FindByID(ctx, id)
}

func (d *Directory) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return d.Users.FindByID(ctx, id)
}

func (d *Directory) AppendScanLog(ctx context.Context, entry *models.BarcodeScanLog) error {
	return d.ScanLogs.Append(ctx, entry)
}
