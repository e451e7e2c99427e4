package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/config"
	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/export"
	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/scan"
	"asset-tracking-api-server/internal/storage"
)

type BarcodeHandler struct {
	Store     *storage.Directory
	Lifecycle *barcode.Lifecycle
	Resolver  *scan.Resolver
	Packager  *export.Packager
	Encoder   *barcode.Encoder
	Cfg       config.Config
}

// PublicScan resolves a scanned barcode for anonymous phone-camera traffic.
// Deleted assets answer 410 so a label on decommissioned hardware reads as
// retired rather than unknown.
func (h *BarcodeHandler) PublicScan(c *gin.Context) {
	view, err := h.Resolver.ResolvePublic(c.Request.Context(), c.Param("barcodeValue"), scanMeta(c))
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

// AuthenticatedScan resolves a barcode for a logged-in user. Dealer accounts
// may only resolve barcodes belonging to their own dealer.
func (h *BarcodeHandler) AuthenticatedScan(c *gin.Context) {
	view, err := h.Resolver.ResolveAuthenticated(c.Request.Context(), c.Param("barcodeValue"), requester(c), scanMeta(c))
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

// CheckBarcode reports whether a value is available for use. Retired values
// stay taken forever, so the check includes soft-deleted assets.
func (h *BarcodeHandler) CheckBarcode(c *gin.Context) {
	value := strings.ToUpper(c.Param("barcodeValue"))
	taken, err := h.Store.Assets.ExistsByBarcode(c.Request.Context(), value, nil)
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"barcodeValue": value,
			"available":    !taken,
		},
	})
}

type PreviewRequest struct {
	DealerCode string `json:"dealerCode" binding:"required"`
	FixtureNo  string `json:"fixtureNo" binding:"required"`
}

// Preview derives a candidate value and renders it without reserving anything,
// so admins can see what a label will look like before creating the asset. The
// artifact is removed shortly after the response is sent.
func (h *BarcodeHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	value := barcode.DeriveBarcodeValue(req.DealerCode, req.FixtureNo)
	artifact, err := h.Encoder.RenderArtifact(value, value)
	if err != nil {
		translateError(c, err)
		return
	}
	relPath := artifact.RelativePath
	time.AfterFunc(cleanupDelay, func() {
		_ = h.Encoder.RemoveArtifact(relPath)
	})

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", artifact.Filename))
	c.File(artifact.FilePath)
}

// RegenerateBarcode mints a fresh identity for an asset, for example after a
// damaged label. The old value is retired permanently.
func (h *BarcodeHandler) RegenerateBarcode(c *gin.Context) {
	assetID, err := primitive.ObjectIDFromHex(c.Param("assetId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	ctx := c.Request.Context()
	asset, err := h.Store.Assets.FindByID(ctx, assetID)
	if err != nil {
		translateError(c, err)
		return
	}

	dealer, err := h.Store.Dealers.FindByIDAny(ctx, asset.DealerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Dealer not found for this asset")
			return
		}
		translateError(c, err)
		return
	}

	updatedBy, _ := requesterID(c)
	identity, err := h.Lifecycle.Regenerate(ctx, asset, dealer, updatedBy)
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Barcode regenerated successfully",
		"data": gin.H{
			"barcodeValue":    identity.BarcodeValue,
			"barcodeImageUrl": asset.BarcodeImageURL(h.Cfg.App.BaseURL),
		},
	})
}

// DownloadBarcode serves a freshly rendered label PNG for one asset. Dealers
// can only download labels for their own assets.
func (h *BarcodeHandler) DownloadBarcode(c *gin.Context) {
	assetID, err := primitive.ObjectIDFromHex(c.Param("assetId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	asset, err := h.Store.Assets.FindByID(c.Request.Context(), assetID)
	if err != nil {
		translateError(c, err)
		return
	}

	if requesterRole(c) == models.RoleDealer {
		ref := requesterDealerRef(c)
		if ref == nil || asset.DealerID != *ref {
			respondError(c, http.StatusForbidden, "You do not have permission to download this barcode")
			return
		}
	}

	artifact, err := h.Encoder.RenderArtifact(asset.BarcodeValue, asset.BarcodeValue)
	if err != nil {
		translateError(c, err)
		return
	}
	relPath := artifact.RelativePath
	time.AfterFunc(cleanupDelay, func() {
		_ = h.Encoder.RemoveArtifact(relPath)
	})

	filename := fmt.Sprintf("%s_barcode.png", barcode.SanitizeFilename(asset.AssetNo))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.File(artifact.FilePath)
}

// DealerBarcodes lists every live asset of a dealer with its barcode details,
// the admin view behind bulk printing.
func (h *BarcodeHandler) DealerBarcodes(c *gin.Context) {
	dealerID, err := primitive.ObjectIDFromHex(c.Param("dealerId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	ctx := c.Request.Context()
	dealer, err := h.Store.Dealers.FindByID(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}

	assets, err := h.Store.Assets.ListByDealer(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}

	type barcodeInfo struct {
		AssetID         primitive.ObjectID `json:"assetId"`
		FixtureNo       string             `json:"fixtureNo"`
		AssetNo         string             `json:"assetNo"`
		BarcodeValue    string             `json:"barcodeValue"`
		BarcodeImageURL string             `json:"barcodeImageUrl"`
	}
	items := make([]barcodeInfo, 0, len(assets))
	for i := range assets {
		items = append(items, barcodeInfo{
			AssetID:         assets[i].ID,
			FixtureNo:       assets[i].FixtureNo,
			AssetNo:         assets[i].AssetNo,
			BarcodeValue:    assets[i].BarcodeValue,
			BarcodeImageURL: assets[i].BarcodeImageURL(h.Cfg.App.BaseURL),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data": gin.H{
			"dealer": gin.H{
				"id":         dealer.ID,
				"dealerCode": dealer.DealerCode,
				"name":       dealer.Name,
			},
			"barcodes": items,
		},
	})
}

// DownloadDealerPDF streams a printable sheet of every barcode for a dealer.
func (h *BarcodeHandler) DownloadDealerPDF(c *gin.Context) {
	dealerID, err := primitive.ObjectIDFromHex(c.Param("dealerId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	ctx := c.Request.Context()
	dealer, err := h.Store.Dealers.FindByID(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}

	assets, err := h.Store.Assets.ListByDealer(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}
	if len(assets) == 0 {
		respondError(c, http.StatusNotFound, "No assets found for this dealer")
		return
	}

	entries := make([]export.Entry, 0, len(assets))
	for i := range assets {
		entries = append(entries, export.Entry{Asset: assets[i], DealerCode: dealer.DealerCode})
	}

	filename := fmt.Sprintf("%s_barcodes_%s.pdf", barcode.SanitizeFilename(dealer.DealerCode), time.Now().Format("20060102"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	title := fmt.Sprintf("%s (%s)", dealer.Name, dealer.DealerCode)
	subtitle := fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04"))
	if err := h.Packager.WritePDF(c.Writer, title, subtitle, entries); err != nil {
		// headers already sent; nothing left but to cut the stream
		log.Printf("dealer pdf export failed: %v", err)
		c.Abort()
	}
}

// DownloadDealerZIP streams a ZIP of individual label PNGs plus a manifest.
func (h *BarcodeHandler) DownloadDealerZIP(c *gin.Context) {
	dealerID, err := primitive.ObjectIDFromHex(c.Param("dealerId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	ctx := c.Request.Context()
	dealer, err := h.Store.Dealers.FindByID(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}

	assets, err := h.Store.Assets.ListByDealer(ctx, dealerID)
	if err != nil {
		translateError(c, err)
		return
	}
	if len(assets) == 0 {
		respondError(c, http.StatusNotFound, "No assets found for this dealer")
		return
	}

	filename := fmt.Sprintf("%s_barcodes_%s.zip", barcode.SanitizeFilename(dealer.DealerCode), time.Now().Format("20060102"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.Packager.WriteZIP(c.Writer, dealer, assets); err != nil {
		log.Printf("dealer zip export failed: %v", err)
		c.Abort()
	}
}

type SelectedPDFRequest struct {
	AssetIDs []string `json:"assetIds" binding:"required,min=1"`
}

// DownloadSelectedPDF streams a barcode sheet for an arbitrary selection of
// assets, potentially spanning dealers.
func (h *BarcodeHandler) DownloadSelectedPDF(c *gin.Context) {
	var req SelectedPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.AssetIDs))
	for _, raw := range req.AssetIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid asset id: %s", raw))
			return
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	assets, err := h.Store.Assets.ListByIDs(ctx, ids)
	if err != nil {
		translateError(c, err)
		return
	}
	if len(assets) == 0 {
		respondError(c, http.StatusNotFound, "No assets found for the given ids")
		return
	}

	// one dealer lookup per distinct dealer, not per asset
	codes := map[primitive.ObjectID]string{}
	entries := make([]export.Entry, 0, len(assets))
	for i := range assets {
		code, ok := codes[assets[i].DealerID]
		if !ok {
			dealer, err := h.Store.Dealers.FindByIDAny(ctx, assets[i].DealerID)
			if err != nil {
				code = ""
			} else {
				code = dealer.DealerCode
			}
			codes[assets[i].DealerID] = code
		}
		entries = append(entries, export.Entry{Asset: assets[i], DealerCode: code})
	}

	filename := fmt.Sprintf("selected_barcodes_%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	title := "Selected Assets"
	subtitle := fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04"))
	if err := h.Packager.WritePDF(c.Writer, title, subtitle, entries); err != nil {
		log.Printf("selected pdf export failed: %v", err)
		c.Abort()
	}
}

const cleanupDelay = time.Second
