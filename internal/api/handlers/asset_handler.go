package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/config"
	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/s3"
	"asset-tracking-api-server/internal/storage"
)

type AssetHandler struct {
	Store     *storage.Directory
	Lifecycle *barcode.Lifecycle
	Uploader  *s3.Uploader // optional; nil disables photo uploads
	Cfg       config.Config
}

type CreateAssetRequest struct {
	FixtureNo        string           `json:"fixtureNo" binding:"required"`
	AssetNo          string           `json:"assetNo" binding:"required"`
	Dimension        models.Dimension `json:"dimension" binding:"required"`
	StandType        string           `json:"standType" binding:"required"`
	BrandID          string           `json:"brandId"`
	ClientID         string           `json:"clientId"`
	DealerID         string           `json:"dealerId" binding:"required"`
	InstallationDate time.Time        `json:"installationDate" binding:"required"`
	Status           string           `json:"status"`
}

// CreateAsset validates ownership and business-key uniqueness, then mints the
// barcode identity and persists the record. The identity is assigned only
// after every precondition passes so a doomed creation never wastes a
// reserved value; the artifact lands on disk before the record references it.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dealerID, err := primitive.ObjectIDFromHex(req.DealerID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	ctx := c.Request.Context()

	dealer, err := h.Store.Dealers.FindByID(ctx, dealerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Dealer not found")
			return
		}
		translateError(c, err)
		return
	}
	if !dealer.IsActive {
		respondError(c, http.StatusBadRequest, "Cannot create asset for inactive dealer")
		return
	}

	var brandID *primitive.ObjectID
	if req.BrandID != "" {
		id, err := primitive.ObjectIDFromHex(req.BrandID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid brand id")
			return
		}
		if _, err := h.Store.Brands.FindByID(ctx, id); err != nil {
			respondError(c, http.StatusNotFound, "Brand not found")
			return
		}
		brandID = &id
	}

	var clientID *primitive.ObjectID
	if req.ClientID != "" {
		id, err := primitive.ObjectIDFromHex(req.ClientID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid client id")
			return
		}
		if _, err := h.Store.Clients.FindByID(ctx, id); err != nil {
			respondError(c, http.StatusNotFound, "Client not found")
			return
		}
		clientID = &id
	}

	if req.InstallationDate.After(time.Now()) {
		respondError(c, http.StatusBadRequest, "Installation date cannot be in the future")
		return
	}

	exists, err := h.Store.Assets.ExistsByAssetNo(ctx, req.AssetNo)
	if err != nil {
		translateError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "Asset number already exists")
		return
	}

	exists, err = h.Store.Assets.ExistsByFixtureNo(ctx, dealerID, req.FixtureNo)
	if err != nil {
		translateError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "Fixture number already exists for this dealer")
		return
	}

	identity, err := h.Lifecycle.AssignOnCreate(ctx, dealer, req.FixtureNo, req.AssetNo)
	if err != nil {
		translateError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.AssetStatusActive
	}

	creator, _ := requesterID(c)
	asset := &models.Asset{
		FixtureNo:        req.FixtureNo,
		AssetNo:          req.AssetNo,
		Dimension:        req.Dimension,
		StandType:        req.StandType,
		BrandID:          brandID,
		ClientID:         clientID,
		DealerID:         dealerID,
		InstallationDate: req.InstallationDate,
		Location:         dealer.Location,
		BarcodeValue:     identity.BarcodeValue,
		BarcodeImagePath: identity.Artifact.RelativePath,
		Status:           status,
		CreatedBy:        creator,
	}

	if err := h.Store.Assets.Insert(ctx, asset); err != nil {
		// A concurrent creation can win the barcode or business-key race
		// between our checks and this insert; the unique index decides. The
		// already-written artifact is left as an orphan.
		translateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Asset created successfully",
		"data": gin.H{
			"asset":           asset,
			"barcodeImageUrl": asset.BarcodeImageURL(h.Cfg.App.BaseURL),
		},
	})
}

// GetAllAssets lists live assets with pagination, search and filters. Dealer
// accounts only ever see their own assets.
func (h *AssetHandler) GetAllAssets(c *gin.Context) {
	filter := storage.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	filter.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	if requesterRole(c) == models.RoleDealer {
		ref := requesterDealerRef(c)
		if ref == nil {
			// a dealer account without a resolvable dealer scope sees nothing
			respondError(c, http.StatusForbidden, "Your account is not linked to a dealer")
			return
		}
		filter.DealerID = ref
	} else if dealerID := c.Query("dealerId"); dealerID != "" {
		id, err := primitive.ObjectIDFromHex(dealerID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid dealer id")
			return
		}
		filter.DealerID = &id
	}

	if brandID := c.Query("brandId"); brandID != "" {
		id, err := primitive.ObjectIDFromHex(brandID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid brand id")
			return
		}
		filter.BrandID = &id
	}

	if startDate := c.Query("startDate"); startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid startDate. Use YYYY-MM-DD format")
			return
		}
		filter.StartDate = &parsed
	}
	if endDate := c.Query("endDate"); endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid endDate. Use YYYY-MM-DD format")
			return
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &endOfDay
	}

	assets, total, err := h.Store.Assets.List(c.Request.Context(), filter)
	if err != nil {
		translateError(c, err)
		return
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(assets),
		"total":       total,
		"totalPages":  totalPages,
		"currentPage": filter.Page,
		"data":        assets,
	})
}

func (h *AssetHandler) GetAssetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	asset, err := h.Store.Assets.FindByID(c.Request.Context(), id)
	if err != nil {
		translateError(c, err)
		return
	}

	if requesterRole(c) == models.RoleDealer {
		ref := requesterDealerRef(c)
		if ref == nil || asset.DealerID != *ref {
			respondError(c, http.StatusForbidden, "You do not have permission to view this asset")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"asset":           asset,
			"barcodeImageUrl": asset.BarcodeImageURL(h.Cfg.App.BaseURL),
		},
	})
}

type UpdateAssetRequest struct {
	Dimension *models.Dimension `json:"dimension"`
	StandType *string           `json:"standType"`
	Status    *string           `json:"status"`
	Location  *models.Location  `json:"location"`
}

// UpdateAsset applies a partial update to mutable fields. Identity fields
// (fixtureNo, assetNo, barcodeValue) are not updatable here; identity changes
// go through the regeneration endpoint.
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{}
	if req.Dimension != nil {
		set["dimension"] = *req.Dimension
	}
	if req.StandType != nil {
		set["standType"] = *req.StandType
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if len(set) == 0 {
		respondError(c, http.StatusBadRequest, "No fields to update")
		return
	}
	if updater, ok := requesterID(c); ok {
		set["updatedBy"] = updater
	}

	if err := h.Store.Assets.UpdateFields(c.Request.Context(), id, set); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Asset updated successfully"})
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	updater, _ := requesterID(c)
	if err := h.Store.Assets.SoftDelete(c.Request.Context(), id, updater); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Asset deleted successfully"})
}

// UploadImages stores asset photos on S3 and appends their URLs to the
// record.
func (h *AssetHandler) UploadImages(c *gin.Context) {
	if h.Uploader == nil {
		respondError(c, http.StatusServiceUnavailable, "Photo uploads are not configured")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid asset id")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.Assets.FindByID(ctx, id); err != nil {
		translateError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, "No images provided")
		return
	}

	var urls []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Cannot read uploaded file %s", header.Filename))
			return
		}

		objectKey := fmt.Sprintf("assets/%s/%s%s", id.Hex(), uuid.New().String(), filepath.Ext(header.Filename))
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := h.Uploader.UploadFile(ctx, file, objectKey, contentType)
		file.Close()
		if err != nil {
			translateError(c, err)
			return
		}
		urls = append(urls, url)
	}

	if err := h.Store.Assets.AddImages(ctx, id, urls); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Images uploaded successfully",
		"data":    gin.H{"imageUrls": urls},
	})
}
