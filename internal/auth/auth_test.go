package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"asset-tracking-api-server/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateJWTCarriesClaims(t *testing.T) {
	dealerRef := primitive.NewObjectID()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     "dealer@example.com",
		Role:      models.RoleDealer,
		DealerRef: &dealerRef,
	}
	secret := []byte("test-secret")

	tokenString, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not parse back: %v", err)
	}

	if claims.UserID != user.ID.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID.Hex())
	}
	if claims.Email != user.Email || claims.Role != models.RoleDealer {
		t.Error("email or role claim missing")
	}
	id, ok := claims.DealerRefID()
	if !ok || id != dealerRef {
		t.Error("dealer reference claim not carried")
	}
}

func TestGenerateJWTExpires(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	secret := []byte("test-secret")

	tokenString, err := GenerateJWT(user, secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	_, err = jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err == nil {
		t.Fatal("expired token should not validate")
	}
}

func TestDealerRefIDAbsent(t *testing.T) {
	claims := &JWTClaims{}
	if _, ok := claims.DealerRefID(); ok {
		t.Error("empty dealer reference should report absent")
	}
}
