package barcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/models"
)

type mockIdentityStore struct {
	taken          map[string]bool
	takenErr       error
	updateErr      error
	existsCalls    int
	lastExclude    *primitive.ObjectID
	updatedValue   string
	updatedPath    string
	updatedAssetID primitive.ObjectID
}

func (m *mockIdentityStore) ExistsByBarcode(ctx context.Context, value string, exclude *primitive.ObjectID) (bool, error) {
	m.existsCalls++
	m.lastExclude = exclude
	if m.takenErr != nil {
		return false, m.takenErr
	}
	return m.taken[value], nil
}

func (m *mockIdentityStore) UpdateIdentity(ctx context.Context, id primitive.ObjectID, barcodeValue, imagePath string, updatedBy primitive.ObjectID) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedAssetID = id
	m.updatedValue = barcodeValue
	m.updatedPath = imagePath
	return nil
}

func newTestLifecycle(t *testing.T, store IdentityStore) *Lifecycle {
	t.Helper()
	return &Lifecycle{
		Store:   store,
		Encoder: &Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"},
	}
}

func activeDealer() *models.Dealer {
	return &models.Dealer{
		ID:         primitive.NewObjectID(),
		DealerCode: "ACME",
		Name:       "Acme Retail",
		IsActive:   true,
	}
}

func TestAssignOnCreateMintsIdentity(t *testing.T) {
	store := &mockIdentityStore{}
	lc := newTestLifecycle(t, store)

	identity, err := lc.AssignOnCreate(context.Background(), activeDealer(), "F100", "AST-001")
	if err != nil {
		t.Fatalf("AssignOnCreate failed: %v", err)
	}
	if identity.BarcodeValue == "" {
		t.Error("empty barcode value")
	}
	if identity.Artifact == nil {
		t.Fatal("no artifact returned")
	}
	if _, err := os.Stat(identity.Artifact.FilePath); err != nil {
		t.Errorf("artifact not on disk before return: %v", err)
	}
	if store.lastExclude != nil {
		t.Error("creation must not exclude any asset from the availability check")
	}
}

func TestAssignOnCreateAbortsWhenRenderFails(t *testing.T) {
	store := &mockIdentityStore{}
	// a regular file where the artifacts directory should go makes every
	// render fail
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	lc := &Lifecycle{
		Store:   store,
		Encoder: &Encoder{UploadsDir: blocked, BaseURL: "http://localhost:5000"},
	}

	_, err := lc.AssignOnCreate(context.Background(), activeDealer(), "F100", "AST-001")
	if err == nil {
		t.Fatal("expected render failure to abort identity assignment")
	}
	if store.updatedValue != "" {
		t.Error("no store write may happen when the artifact cannot be rendered")
	}
}

func TestAssignOnCreateRejectsInactiveDealer(t *testing.T) {
	store := &mockIdentityStore{}
	lc := newTestLifecycle(t, store)

	dealer := activeDealer()
	dealer.IsActive = false

	_, err := lc.AssignOnCreate(context.Background(), dealer, "F100", "AST-001")
	if !errors.Is(err, ErrDealerInactive) {
		t.Fatalf("expected ErrDealerInactive, got %v", err)
	}
	if store.existsCalls != 0 {
		t.Errorf("no reservation should happen for an inactive dealer, saw %d checks", store.existsCalls)
	}
}

func TestRegenerateSwapsIdentityAndRemovesOldArtifact(t *testing.T) {
	store := &mockIdentityStore{}
	lc := newTestLifecycle(t, store)
	dealer := activeDealer()

	old, err := lc.Encoder.RenderArtifact("ACME-F100-250001", "AST-001")
	if err != nil {
		t.Fatalf("setup render failed: %v", err)
	}

	asset := &models.Asset{
		ID:               primitive.NewObjectID(),
		FixtureNo:        "F100",
		AssetNo:          "AST-001",
		DealerID:         dealer.ID,
		BarcodeValue:     "ACME-F100-250001",
		BarcodeImagePath: old.RelativePath,
	}

	updatedBy := primitive.NewObjectID()
	identity, err := lc.Regenerate(context.Background(), asset, dealer, updatedBy)
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}

	if store.updatedAssetID != asset.ID {
		t.Errorf("identity swap hit asset %s, want %s", store.updatedAssetID.Hex(), asset.ID.Hex())
	}
	if store.updatedValue != identity.BarcodeValue {
		t.Errorf("store got value %q, identity says %q", store.updatedValue, identity.BarcodeValue)
	}
	if store.lastExclude == nil || *store.lastExclude != asset.ID {
		t.Error("availability check must exclude the asset being regenerated")
	}
	if asset.BarcodeValue != identity.BarcodeValue || asset.BarcodeImagePath != identity.Artifact.RelativePath {
		t.Error("asset fields not updated to the new identity")
	}
	if _, err := os.Stat(old.FilePath); !os.IsNotExist(err) {
		t.Error("superseded artifact still on disk")
	}
	if _, err := os.Stat(identity.Artifact.FilePath); err != nil {
		t.Errorf("new artifact missing: %v", err)
	}
}

func TestRegenerateKeepsOldIdentityWhenSwapFails(t *testing.T) {
	store := &mockIdentityStore{updateErr: errors.New("write conflict")}
	lc := newTestLifecycle(t, store)
	dealer := activeDealer()

	old, err := lc.Encoder.RenderArtifact("ACME-F100-250001", "AST-001")
	if err != nil {
		t.Fatalf("setup render failed: %v", err)
	}

	asset := &models.Asset{
		ID:               primitive.NewObjectID(),
		FixtureNo:        "F100",
		AssetNo:          "AST-001",
		DealerID:         dealer.ID,
		BarcodeValue:     "ACME-F100-250001",
		BarcodeImagePath: old.RelativePath,
	}

	_, err = lc.Regenerate(context.Background(), asset, dealer, primitive.NewObjectID())
	if err == nil {
		t.Fatal("expected error when the record swap fails")
	}
	if asset.BarcodeValue != "ACME-F100-250001" || asset.BarcodeImagePath != old.RelativePath {
		t.Error("asset fields must be untouched after a failed swap")
	}
	if _, err := os.Stat(old.FilePath); err != nil {
		t.Errorf("old artifact must survive a failed swap: %v", err)
	}
}

func TestRegenerateToleratesOldArtifactDeleteFailure(t *testing.T) {
	store := &mockIdentityStore{}
	lc := newTestLifecycle(t, store)
	dealer := activeDealer()

	asset := &models.Asset{
		ID:               primitive.NewObjectID(),
		FixtureNo:        "F100",
		AssetNo:          "AST-001",
		DealerID:         dealer.ID,
		BarcodeValue:     "ACME-F100-250001",
		BarcodeImagePath: "uploads/barcodes/never_existed.png",
	}

	identity, err := lc.Regenerate(context.Background(), asset, dealer, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("missing old artifact must not fail regeneration: %v", err)
	}
	if identity.BarcodeValue == "" {
		t.Error("no new value minted")
	}
}

// reservingStore reserves a value inside the availability check itself, the
// way the partial unique index settles the check-then-insert race: once a
// value has been handed out, every later check on it reports taken.
type reservingStore struct {
	mu       sync.Mutex
	reserved map[string]bool
}

func (s *reservingStore) ExistsByBarcode(ctx context.Context, value string, exclude *primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[value] {
		return true, nil
	}
	s.reserved[value] = true
	return false, nil
}

func (s *reservingStore) UpdateIdentity(ctx context.Context, id primitive.ObjectID, barcodeValue, imagePath string, updatedBy primitive.ObjectID) error {
	return nil
}

func TestConcurrentCreationsMintDistinctValues(t *testing.T) {
	store := &reservingStore{reserved: map[string]bool{}}
	lc := newTestLifecycle(t, store)
	dealer := activeDealer()

	// same dealer and fixture, so candidates derived in the same millisecond
	// collide and have to go through the retry path
	const workers = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	minted := map[string]int{}
	var exhausted int32

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity, err := lc.AssignOnCreate(context.Background(), dealer, "F100", "AST-001")
			if err != nil {
				// running out of candidates inside one timestamp window is a
				// legal outcome; silently minting a duplicate is not
				if errors.Is(err, ErrBarcodeExhausted) {
					atomic.AddInt32(&exhausted, 1)
					return
				}
				t.Errorf("unexpected creation error: %v", err)
				return
			}
			mu.Lock()
			minted[identity.BarcodeValue]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for value, count := range minted {
		if count > 1 {
			t.Errorf("value %q minted %d times", value, count)
		}
	}
	if len(minted) == 0 {
		t.Fatal("every creation exhausted; at least the first must succeed")
	}
	if len(minted)+int(exhausted) != workers {
		t.Errorf("outcomes do not add up: %d minted + %d exhausted, want %d", len(minted), exhausted, workers)
	}
}

func TestRegeneratePropagatesReservationFailure(t *testing.T) {
	store := &mockIdentityStore{takenErr: errors.New("connection reset")}
	lc := newTestLifecycle(t, store)
	dealer := activeDealer()

	asset := &models.Asset{
		ID:           primitive.NewObjectID(),
		FixtureNo:    "F100",
		AssetNo:      "AST-001",
		DealerID:     dealer.ID,
		BarcodeValue: "ACME-F100-250001",
	}

	if _, err := lc.Regenerate(context.Background(), asset, dealer, primitive.NewObjectID()); err == nil {
		t.Fatal("expected reservation failure to propagate")
	}
	if store.updatedValue != "" {
		t.Error("no identity swap may happen after a failed reservation")
	}
}
