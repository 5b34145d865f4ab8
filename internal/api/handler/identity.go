package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetIdentity mints an anonymous identity for a new client: a random
// id plus a signed token the frontend can cache. Nothing in the system
// verifies this token on later calls; identity remains a caller-
// supplied string everywhere, and the mint is a convenience only.
func (h *Handler) GetIdentity(c *gin.Context) {
	anonID := uuid.New().String()

	claims := jwt.MapClaims{
		"anon_id": anonID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iss":     "roomchat-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"anon_id": anonID, "token": signed})
}
