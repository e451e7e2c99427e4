package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"asset-tracking-api-server/internal/api/middleware"
	"asset-tracking-api-server/internal/models"
)

// A DEALER account whose token carries no resolvable dealer reference must be
// rejected before any listing happens, not fall through to an unscoped query.
func TestGetAllAssetsRejectsDealerWithoutScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		dealerRef string
	}{
		{"missing dealer reference", ""},
		{"malformed dealer reference", "not-an-object-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
			c.Set(middleware.CtxUserRole, models.RoleDealer)
			c.Set(middleware.CtxDealerRef, tt.dealerRef)

			// the handler must bail out before touching storage
			h := &AssetHandler{}
			h.GetAllAssets(c)

			if w.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
			}
			if !strings.Contains(w.Body.String(), `"success":false`) {
				t.Errorf("missing failure envelope: %s", w.Body.String())
			}
		})
	}
}
