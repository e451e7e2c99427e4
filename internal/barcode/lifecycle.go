package barcode

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/models"
)

// ErrDealerInactive blocks identity assignment for inactive dealers.
var ErrDealerInactive = errors.New("barcode: dealer is inactive")

// IdentityStore is the slice of asset storage the lifecycle needs. The
// repository is passed in explicitly; nothing here touches a global handle.
type IdentityStore interface {
	// ExistsByBarcode checks a candidate against all records, soft-deleted
	// included, optionally excluding one asset id.
	ExistsByBarcode(ctx context.Context, value string, exclude *primitive.ObjectID) (bool, error)
	// UpdateIdentity swaps barcodeValue and barcodeImagePath on one asset.
	UpdateIdentity(ctx context.Context, id primitive.ObjectID, barcodeValue, imagePath string, updatedBy primitive.ObjectID) error
}

// Identity is a freshly minted barcode value plus its persisted artifact.
type Identity struct {
	BarcodeValue string
	Artifact     *Artifact
}

// Lifecycle orchestrates the encoder and the reservation loop around asset
// creation and regeneration.
type Lifecycle struct {
	Store   IdentityStore
	Encoder *Encoder
}

// AssignOnCreate mints the identity for an asset being created: reserves a
// unique barcode value for the dealer/fixture pair and renders its artifact
// with the asset number as caption. The artifact is on disk before this
// returns, so the caller can safely reference it from the new record. If the
// caller's insert later fails the artifact is left behind as an orphan, which
// is tolerated.
func (l *Lifecycle) AssignOnCreate(ctx context.Context, dealer *models.Dealer, fixtureNo, assetNo string) (*Identity, error) {
	if !dealer.IsActive {
		return nil, ErrDealerInactive
	}

	value, err := ReserveUniqueBarcode(ctx, dealer.DealerCode, fixtureNo, func(ctx context.Context, candidate string) (bool, error) {
		return l.Store.ExistsByBarcode(ctx, candidate, nil)
	})
	if err != nil {
		return nil, err
	}

	artifact, err := l.Encoder.RenderArtifact(value, assetNo)
	if err != nil {
		return nil, err
	}

	return &Identity{BarcodeValue: value, Artifact: artifact}, nil
}

// Regenerate mints a fresh identity for an existing asset and swaps it onto
// the record. Ordering: new artifact persisted first, then the record swap,
// then best-effort deletion of the superseded artifact. Cleanup failures are
// logged, never propagated. The reservation oracle excludes the asset itself
// so re-deriving the current value is not a false collision. On any failure
// before the swap the asset keeps its previous identity untouched.
func (l *Lifecycle) Regenerate(ctx context.Context, asset *models.Asset, dealer *models.Dealer, updatedBy primitive.ObjectID) (*Identity, error) {
	value, err := ReserveUniqueBarcode(ctx, dealer.DealerCode, asset.FixtureNo, func(ctx context.Context, candidate string) (bool, error) {
		return l.Store.ExistsByBarcode(ctx, candidate, &asset.ID)
	})
	if err != nil {
		return nil, err
	}

	artifact, err := l.Encoder.RenderArtifact(value, asset.AssetNo)
	if err != nil {
		return nil, err
	}

	if err := l.Store.UpdateIdentity(ctx, asset.ID, value, artifact.RelativePath, updatedBy); err != nil {
		// The record still points at the old artifact; drop the new one.
		if rmErr := l.Encoder.RemoveArtifact(artifact.RelativePath); rmErr != nil {
			log.Printf("barcode: failed to remove unused artifact %s: %v", artifact.RelativePath, rmErr)
		}
		return nil, fmt.Errorf("failed to update asset identity: %w", err)
	}

	oldPath := asset.BarcodeImagePath
	if err := l.Encoder.RemoveArtifact(oldPath); err != nil {
		log.Printf("barcode: failed to delete superseded artifact %s: %v", oldPath, err)
	}

	asset.BarcodeValue = value
	asset.BarcodeImagePath = artifact.RelativePath

	return &Identity{BarcodeValue: value, Artifact: artifact}, nil
}
