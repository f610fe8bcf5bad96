// Package auth issues and verifies the backend's HS256 access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id in sub plus the role and tenant needed to
// scope requests without a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	Role     wire.Role `json:"role"`
	TenantID string    `json:"tenant_id,omitempty"`
}

// Principal is the authenticated caller extracted from a token.
type Principal struct {
	UserID   string
	Role     wire.Role
	TenantID string
}

// IsSuperAdmin reports whether p has platform scope.
func (p Principal) IsSuperAdmin() bool { return p.Role == wire.RoleSuperAdmin }

const issuer = "salonadmin"

func GenerateToken(p Principal, secretKey []byte, validity time.Duration) (string, error) {
	issued := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validity)),
		},
		Role:     p.Role,
		TenantID: p.TenantID,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenString and returns its principal. Expired tokens
// yield common.ErrTokenExpired, anything else unusable common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, common.ErrTokenExpired
		}
		return Principal{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{UserID: claims.Subject, Role: claims.Role, TenantID: claims.TenantID}, nil
}
