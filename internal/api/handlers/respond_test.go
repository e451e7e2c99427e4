package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/scan"
	"asset-tracking-api-server/internal/storage"
)

func TestTranslateErrorMapsDomainOutcomes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"duplicate key is a conflict", storage.ErrDuplicateKey, http.StatusConflict},
		{"scan not found", scan.ErrNotFound, http.StatusNotFound},
		{"scan deleted is gone", scan.ErrDeleted, http.StatusGone},
		{"scan forbidden", scan.ErrForbidden, http.StatusForbidden},
		{"exhausted reservation is a server error", barcode.ErrBarcodeExhausted, http.StatusInternalServerError},
		{"inactive dealer is a client error", barcode.ErrDealerInactive, http.StatusBadRequest},
		{"storage not found", storage.ErrNotFound, http.StatusNotFound},
		{"unknown errors stay opaque", errors.New("driver exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			translateError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), `"success":false`) {
				t.Errorf("missing failure envelope: %s", w.Body.String())
			}
		})
	}
}

// A wrapped duplicate-key error must still land on 409: the repository wraps
// driver errors, and the insert path relies on errors.Is matching through the
// chain.
func TestTranslateErrorUnwrapsDuplicateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	translateError(c, errors.Join(errors.New("insert failed"), storage.ErrDuplicateKey))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}
