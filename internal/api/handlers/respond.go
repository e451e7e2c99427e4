package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/scan"
	"asset-tracking-api-server/internal/storage"
)

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// translateError maps domain outcomes onto transport codes in one place so
// handlers never touch status codes for shared failure modes. Unrecognized
// errors are logged and answered with an opaque 500; no stack traces leak.
func translateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scan.ErrNotFound):
		respondError(c, http.StatusNotFound, "Asset not found for this barcode")
	case errors.Is(err, scan.ErrDeleted):
		respondError(c, http.StatusGone, "This asset has been deleted")
	case errors.Is(err, scan.ErrForbidden):
		respondError(c, http.StatusForbidden, "You do not have permission to view this asset")
	case errors.Is(err, barcode.ErrBarcodeExhausted):
		respondError(c, http.StatusInternalServerError, "Failed to generate unique barcode. Please try again.")
	case errors.Is(err, barcode.ErrDealerInactive):
		respondError(c, http.StatusBadRequest, "Cannot create asset for inactive dealer")
	case errors.Is(err, storage.ErrDuplicateKey):
		respondError(c, http.StatusConflict, "A record with this value already exists")
	case errors.Is(err, storage.ErrNotFound):
		respondError(c, http.StatusNotFound, "Record not found")
	default:
		log.Printf("handler error: %v", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
