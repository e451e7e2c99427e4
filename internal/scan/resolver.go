package scan

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/socket"
	"asset-tracking-api-server/internal/storage"
)

// Scan outcomes. NotFound and Deleted are deliberately distinct so a scanned
// label on a retired fixture gets a clearer answer than "unknown barcode".
var (
	ErrNotFound  = errors.New("scan: no asset for this barcode")
	ErrDeleted   = errors.New("scan: asset has been deleted")
	ErrForbidden = errors.New("scan: no permission to view this asset")
)

// Store is everything the resolver needs from persistence. Barcode lookup
// covers all records including soft-deleted ones.
type Store interface {
	AssetByBarcode(ctx context.Context, barcodeValue string) (*models.Asset, error)
	DealerByID(ctx context.Context, id primitive.ObjectID) (*models.Dealer, error)
	BrandByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	ClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AppendScanLog(ctx context.Context, entry *models.BarcodeScanLog) error
}

// Meta captures requester details recorded with each scan.
type Meta struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// Requester identifies the authenticated caller of a scan.
type Requester struct {
	UserID    string
	Role      string
	DealerRef *primitive.ObjectID
}

// PersonRef is a display-only reference to the user who created or updated an
// asset.
type PersonRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AssetView is the read-only payload assembled for a resolved scan.
type AssetView struct {
	Asset  *models.Asset  `json:"asset"`
	Dealer *models.Dealer `json:"dealer"`
	Brand  *models.Brand  `json:"brand,omitempty"`
	Client *models.Client `json:"client,omitempty"`
	Audit  struct {
		CreatedBy *PersonRef `json:"createdBy,omitempty"`
		UpdatedBy *PersonRef `json:"updatedBy,omitempty"`
	} `json:"audit"`
}

const telemetryTimeout = 5 * time.Second

// Resolver turns inbound barcode values back into asset views and records
// scan telemetry as a detached side effect.
type Resolver struct {
	Store Store
	Hub   *socket.Hub // optional live feed; nil disables

	wg sync.WaitGroup
}

// ResolvePublic resolves a scan from the unauthenticated endpoint. On success
// a telemetry row is appended on a detached goroutine; its failure is logged
// and never surfaces, and it never delays the response.
func (r *Resolver) ResolvePublic(ctx context.Context, barcodeValue string, meta Meta) (*AssetView, error) {
	asset, err := r.lookup(ctx, barcodeValue)
	if err != nil {
		return nil, err
	}

	view, err := r.assembleView(ctx, asset)
	if err != nil {
		return nil, err
	}

	r.recordAsync(asset, view.Dealer, models.ScanTypePublic, meta)
	return view, nil
}

// ResolveAuthenticated resolves a scan for a logged-in requester. A requester
// scoped to a single dealer may only resolve that dealer's assets.
func (r *Resolver) ResolveAuthenticated(ctx context.Context, barcodeValue string, requester Requester, meta Meta) (*AssetView, error) {
	asset, err := r.lookup(ctx, barcodeValue)
	if err != nil {
		return nil, err
	}

	if requester.Role == models.RoleDealer {
		if requester.DealerRef == nil || asset.DealerID != *requester.DealerRef {
			return nil, ErrForbidden
		}
	}

	view, err := r.assembleView(ctx, asset)
	if err != nil {
		return nil, err
	}

	r.recordAsync(asset, view.Dealer, models.ScanTypeAuthenticated, meta)
	return view, nil
}

// Flush waits for in-flight telemetry writes. Used on shutdown and in tests.
func (r *Resolver) Flush() {
	r.wg.Wait()
}

func (r *Resolver) lookup(ctx context.Context, barcodeValue string) (*models.Asset, error) {
	asset, err := r.Store.AssetByBarcode(ctx, strings.ToUpper(barcodeValue))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if asset.IsDeleted {
		return nil, ErrDeleted
	}
	return asset, nil
}

// assembleView joins the dealer (required) and the optional brand, client and
// audit display fields. Missing optional references degrade to nil rather than
// failing the scan.
func (r *Resolver) assembleView(ctx context.Context, asset *models.Asset) (*AssetView, error) {
	dealer, err := r.Store.DealerByID(ctx, asset.DealerID)
	if err != nil {
		return nil, err
	}

	view := &AssetView{Asset: asset, Dealer: dealer}

	if asset.BrandID != nil {
		if brand, err := r.Store.BrandByID(ctx, *asset.BrandID); err == nil {
			view.Brand = brand
		}
	}
	if asset.ClientID != nil {
		if client, err := r.Store.ClientByID(ctx, *asset.ClientID); err == nil {
			view.Client = client
		}
	}
	if creator, err := r.Store.UserByID(ctx, asset.CreatedBy); err == nil {
		view.Audit.CreatedBy = &PersonRef{Name: creator.Name, Email: creator.Email}
	}
	if asset.UpdatedBy != nil {
		if updater, err := r.Store.UserByID(ctx, *asset.UpdatedBy); err == nil {
			view.Audit.UpdatedBy = &PersonRef{Name: updater.Name, Email: updater.Email}
		}
	}

	return view, nil
}

// recordAsync appends the scan log and feeds the live event hub without
// blocking the caller. Uses a fresh context: the HTTP request may complete
// (or be abandoned) before the write lands.
func (r *Resolver) recordAsync(asset *models.Asset, dealer *models.Dealer, scanType string, meta Meta) {
	entry := &models.BarcodeScanLog{
		AssetID:      asset.ID,
		BarcodeValue: asset.BarcodeValue,
		DealerID:     asset.DealerID,
		ClientID:     asset.ClientID,
		ScanType:     scanType,
		ScannedAt:    time.Now(),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Referer:      meta.Referer,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
		defer cancel()
		if err := r.Store.AppendScanLog(ctx, entry); err != nil {
			log.Printf("scan: failed to persist scan log for %s: %v", entry.BarcodeValue, err)
		}

		if r.Hub != nil {
			r.Hub.BroadcastScan(socket.ScanEvent{
				AssetID:      asset.ID.Hex(),
				AssetNo:      asset.AssetNo,
				BarcodeValue: asset.BarcodeValue,
				DealerID:     asset.DealerID.Hex(),
				DealerCode:   dealer.DealerCode,
				ScanType:     scanType,
				ScannedAt:    entry.ScannedAt,
			})
		}
	}()
}
