package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/storage"
)

type DealerHandler struct {
	Dealers *storage.DealerRepository
}

type CreateDealerRequest struct {
	DealerCode      string          `json:"dealerCode" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	ShopName        string          `json:"shopName"`
	VATRegistration string          `json:"vatRegistration"`
	Location        models.Location `json:"location"`
}

func (h *DealerHandler) CreateDealer(c *gin.Context) {
	var req CreateDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.Dealers.ExistsByCode(c.Request.Context(), req.DealerCode)
	if err != nil {
		translateError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "Dealer with this code already exists")
		return
	}

	creator, _ := requesterID(c)
	dealer := &models.Dealer{
		DealerCode:      strings.ToUpper(req.DealerCode),
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		ShopName:        req.ShopName,
		VATRegistration: req.VATRegistration,
		Location:        req.Location,
		IsActive:        true,
		CreatedBy:       creator,
	}

	if err := h.Dealers.Insert(c.Request.Context(), dealer); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Dealer created successfully",
		"data":    dealer,
	})
}

func (h *DealerHandler) GetAllDealers(c *gin.Context) {
	dealers, err := h.Dealers.List(c.Request.Context())
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(dealers),
		"data":    dealers,
	})
}

func (h *DealerHandler) GetDealerByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	dealer, err := h.Dealers.FindByID(c.Request.Context(), id)
	if err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dealer})
}

type UpdateDealerRequest struct {
	Name            *string          `json:"name"`
	Phone           *string          `json:"phone"`
	Email           *string          `json:"email"`
	ShopName        *string          `json:"shopName"`
	VATRegistration *string          `json:"vatRegistration"`
	Location        *models.Location `json:"location"`
	IsActive        *bool            `json:"isActive"`
}

// UpdateDealer applies a partial update. dealerCode is immutable here:
// changing it would require regenerating every owned asset's barcode, which
// is an explicit admin action per asset.
func (h *DealerHandler) UpdateDealer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	var req UpdateDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.ShopName != nil {
		set["shopName"] = *req.ShopName
	}
	if req.VATRegistration != nil {
		set["vatRegistration"] = *req.VATRegistration
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if len(set) == 0 {
		respondError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	if err := h.Dealers.UpdateFields(c.Request.Context(), id, set); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dealer updated successfully"})
}

func (h *DealerHandler) DeleteDealer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dealer id")
		return
	}

	if err := h.Dealers.SoftDelete(c.Request.Context(), id); err != nil {
		translateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dealer deleted successfully"})
}
