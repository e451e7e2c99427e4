package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/models"
)

func testPackager(t *testing.T) *Packager {
	t.Helper()
	return &Packager{
		Encoder: &barcode.Encoder{UploadsDir: t.TempDir(), BaseURL: "http://localhost:5000"},
	}
}

func testEntries(n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{
			Asset: models.Asset{
				ID:           primitive.NewObjectID(),
				FixtureNo:    "F10" + string(rune('0'+i%10)),
				AssetNo:      "AST-00" + string(rune('0'+i%10)),
				BarcodeValue: barcode.DeriveBarcodeValue("ACME", "F10"+string(rune('0'+i%10))),
			},
			DealerCode: "ACME",
		})
	}
	return entries
}

func TestWritePDFProducesDocument(t *testing.T) {
	p := testPackager(t)

	var buf bytes.Buffer
	if err := p.WritePDF(&buf, "Acme Retail (ACME)", "Generated: test", testEntries(3)); err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF, first bytes: %q", buf.Bytes()[:8])
	}
}

func TestWritePDFPaginatesBeyondOneSheet(t *testing.T) {
	p := testPackager(t)

	var buf bytes.Buffer
	// one more entry than fits on a single sheet
	if err := p.WritePDF(&buf, "Acme Retail", "", testEntries(codesPerPage+1)); err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty PDF output")
	}
}

func TestWritePDFSkipsUnrenderableAsset(t *testing.T) {
	p := testPackager(t)

	entries := testEntries(2)
	// a value beyond QR capacity makes this one asset unrenderable
	entries[0].Asset.BarcodeValue = strings.Repeat("X", 4096)

	var buf bytes.Buffer
	if err := p.WritePDF(&buf, "Acme Retail", "", entries); err != nil {
		t.Fatalf("one bad asset must not abort the batch: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestWriteZIPContainsManifestAndImages(t *testing.T) {
	p := testPackager(t)

	dealer := &models.Dealer{
		DealerCode: "ACME",
		Name:       "Acme Retail",
		ShopName:   "Acme Megastore",
		Email:      "shop@acme.example",
	}
	entries := testEntries(2)
	assets := []models.Asset{entries[0].Asset, entries[1].Asset}

	var buf bytes.Buffer
	if err := p.WriteZIP(&buf, dealer, assets); err != nil {
		t.Fatalf("WriteZIP failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}

	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	if !names["README.txt"] {
		t.Error("manifest missing from archive")
	}
	if len(reader.File) != len(assets)+1 {
		t.Errorf("expected %d archive entries, got %d", len(assets)+1, len(reader.File))
	}

	manifest, err := reader.Open("README.txt")
	if err != nil {
		t.Fatalf("cannot open manifest: %v", err)
	}
	defer manifest.Close()
	content, err := io.ReadAll(manifest)
	if err != nil {
		t.Fatalf("cannot read manifest: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "Dealer Code: ACME") {
		t.Error("manifest missing the dealer code")
	}
	for _, asset := range assets {
		if !strings.Contains(text, asset.BarcodeValue) {
			t.Errorf("manifest missing asset %s", asset.AssetNo)
		}
	}
}

func TestWriteZIPSkipsUnrenderableAsset(t *testing.T) {
	p := testPackager(t)

	dealer := &models.Dealer{DealerCode: "ACME", Name: "Acme Retail"}
	entries := testEntries(2)
	assets := []models.Asset{entries[0].Asset, entries[1].Asset}
	assets[0].BarcodeValue = strings.Repeat("X", 4096)

	var buf bytes.Buffer
	if err := p.WriteZIP(&buf, dealer, assets); err != nil {
		t.Fatalf("one bad asset must not abort the archive: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}
	// README plus the single renderable asset
	if len(reader.File) != 2 {
		t.Errorf("expected 2 archive entries, got %d", len(reader.File))
	}
}
