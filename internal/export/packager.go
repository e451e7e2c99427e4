package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/models"
)

// Layout of the PDF barcode sheets: A4, 16 codes per page in a 4x4 grid.
const (
	pageWidth    = 595.28
	pageHeight   = 841.89
	pageMargin   = 40.0
	headerHeight = 150.0
	codesPerRow  = 4
	codesPerPage = 16
	codeSize     = 120.0
)

// cleanupDelay keeps temp renders around long enough for slow downstream
// consumers before they are unlinked.
const cleanupDelay = time.Second

// Entry pairs an asset with its owning dealer's code for sheet rendering.
type Entry struct {
	Asset      models.Asset
	DealerCode string
}

// Packager assembles many rendered barcode artifacts into composite outputs.
// Individual render failures are logged and the asset skipped; one bad asset
// never aborts the batch.
type Packager struct {
	Encoder *barcode.Encoder
}

// WritePDF streams a multi-page barcode sheet for the given assets.
func (p *Packager) WritePDF(w io.Writer, title, subtitle string, entries []Entry) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 26, "Asset Tracking", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 22, title, "", 1, "C", false, 0, "")
	if subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 16, subtitle, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 14, fmt.Sprintf("Total Assets: %d", len(entries)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 12, fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006, 03:04 PM")), "", 1, "C", false, 0, "")

	cellWidth := (pageWidth - 2*pageMargin) / codesPerRow
	cellHeight := (pageHeight - headerHeight) / codesPerRow

	for i, entry := range entries {
		if i > 0 && i%codesPerPage == 0 {
			pdf.AddPage()
		}

		positionOnPage := i % codesPerPage
		row := positionOnPage / codesPerRow
		col := positionOnPage % codesPerRow

		x := pageMargin + float64(col)*cellWidth + (cellWidth-codeSize)/2
		y := headerHeight + float64(row)*cellHeight

		artifact, err := p.Encoder.RenderArtifact(entry.Asset.BarcodeValue, entry.Asset.AssetNo)
		if err != nil {
			log.Printf("export: barcode render failed for asset %s: %v", entry.Asset.AssetNo, err)
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(200, 0, 0)
			pdf.Text(x, y+10, "QR Error")
			pdf.SetTextColor(0, 0, 0)
			continue
		}

		pdf.ImageOptions(artifact.FilePath, x, y, codeSize, codeSize, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		pdf.Text(x, y+codeSize+10, fmt.Sprintf("%s / %s-%s", entry.Asset.AssetNo, entry.DealerCode, entry.Asset.FixtureNo))

		if err := os.Remove(artifact.FilePath); err != nil {
			log.Printf("export: temp artifact cleanup failed: %v", err)
		}
	}

	return pdf.Output(w)
}

// WriteZIP streams an archive of per-asset barcode images plus a README
// manifest for one dealer.
func (p *Packager) WriteZIP(w io.Writer, dealer *models.Dealer, assets []models.Asset) error {
	archive := zip.NewWriter(w)

	manifest, err := archive.Create("README.txt")
	if err != nil {
		return fmt.Errorf("failed to create ZIP manifest: %w", err)
	}
	fmt.Fprintf(manifest, "Asset Tracking - Barcode Collection\n")
	fmt.Fprintf(manifest, "Dealer: %s\n", dealer.Name)
	fmt.Fprintf(manifest, "Dealer Code: %s\n", dealer.DealerCode)
	fmt.Fprintf(manifest, "Shop: %s\n", dealer.ShopName)
	fmt.Fprintf(manifest, "Email: %s\n", dealer.Email)
	fmt.Fprintf(manifest, "Total Assets: %d\n", len(assets))
	fmt.Fprintf(manifest, "Generated: %s\n\nAsset List:\n", time.Now().Format("02 Jan 2006, 03:04 PM"))
	for i, asset := range assets {
		fmt.Fprintf(manifest, "%d. %s - %s - %s\n", i+1, asset.AssetNo, asset.FixtureNo, asset.BarcodeValue)
	}

	for _, asset := range assets {
		artifact, err := p.Encoder.RenderArtifact(asset.BarcodeValue, asset.AssetNo)
		if err != nil {
			log.Printf("export: barcode render failed for asset %s: %v", asset.AssetNo, err)
			continue
		}

		name := barcode.SanitizeFilename(asset.AssetNo+"_"+asset.FixtureNo) + ".png"
		if err := p.addFileToZip(archive, artifact.FilePath, name); err != nil {
			log.Printf("export: failed to add %s to archive: %v", name, err)
		}

		scheduleRemoval(artifact.FilePath)
	}

	return archive.Close()
}

func (p *Packager) addFileToZip(archive *zip.Writer, filePath, name string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}

// scheduleRemoval unlinks a temp render after a short delay so the archive
// writer (and any slow consumer behind it) has finished reading the file.
func scheduleRemoval(filePath string) {
	time.AfterFunc(cleanupDelay, func() {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			log.Printf("export: temp file cleanup failed for %s: %v", filePath, err)
		}
	})
}
