package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"asset-tracking-api-server/internal/models"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	UserID    string `json:"userID"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	DealerRef string `json:"dealerRef,omitempty"`
	ClientRef string `json:"clientRef,omitempty"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT mints an HS256 token for the given user. The secret comes from
// configuration; nothing here reads globals.
func GenerateJWT(user *models.User, secret []byte, expiration time.Duration) (string, error) {
	claims := &JWTClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if user.DealerRef != nil {
		claims.DealerRef = user.DealerRef.Hex()
	}
	if user.ClientRef != nil {
		claims.ClientRef = user.ClientRef.Hex()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// DealerRefID parses the claims' dealer reference, if any.
func (c *JWTClaims) DealerRefID() (primitive.ObjectID, bool) {
	if c.DealerRef == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(c.DealerRef)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
