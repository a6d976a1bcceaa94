package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AdminTokenTTL = 24 * time.Hour

// AdminClaims identifies the bearer of an admin token issued against
// the operator-configured ADMIN_TOKEN secret.
type AdminClaims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}
