package auth

import (
	"testing"
	"time"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	in := Principal{UserID: "user-123", Role: wire.RoleManager, TenantID: "t-1"}

	tok, err := GenerateToken(in, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.False(t, got.IsSuperAdmin())
}

func TestGenerateAndParse_SuperAdminHasNoTenant(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken(Principal{UserID: "root", Role: wire.RoleSuperAdmin}, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.True(t, got.IsSuperAdmin())
	assert.Empty(t, got.TenantID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(Principal{UserID: "u1", Role: wire.RoleStylist, TenantID: "t"}, secret, -time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Principal{UserID: "u2", Role: wire.RoleSuperAdmin}, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsForeignClaims(t *testing.T) {
	t.Parallel()
	secret := []byte("k")

	sign := func(c Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]Claims{
		"unknown role":   {RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: issuer, ExpiresAt: exp}, Role: "owner"},
		"no subject":     {RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: exp}, Role: wire.RoleSuperAdmin},
		"other issuer":   {RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: "else", ExpiresAt: exp}, Role: wire.RoleSuperAdmin},
		"never expiring": {RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: issuer}, Role: wire.RoleSuperAdmin},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(sign(c), secret)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             wire.RoleSuperAdmin,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
