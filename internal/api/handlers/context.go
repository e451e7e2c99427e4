package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/api/middleware"
	"asset-tracking-api-server/internal/scan"
)

// requesterID returns the authenticated caller's object id.
func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := c.GetString(middleware.CtxUserID)
	if raw == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func requesterRole(c *gin.Context) string {
	return c.GetString(middleware.CtxUserRole)
}

// requesterDealerRef returns the dealer the caller is scoped to, if any.
func requesterDealerRef(c *gin.Context) *primitive.ObjectID {
	raw := c.GetString(middleware.CtxDealerRef)
	if raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}

func requester(c *gin.Context) scan.Requester {
	return scan.Requester{
		UserID:    c.GetString(middleware.CtxUserID),
		Role:      requesterRole(c),
		DealerRef: requesterDealerRef(c),
	}
}

// scanMeta captures the request attributes recorded with scan telemetry.
func scanMeta(c *gin.Context) scan.Meta {
	return scan.Meta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	}
}
