package auth

import (
	"testing"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                      "test-secret",
		Issuer:                      "pharmacare-test",
		ExpirationMinutes:           15,
		VerificationTokenTTLMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	pharmacyID := uuid.New()
	payload := AccessTokenPayload{
		UserID:     uuid.New(),
		PharmacyID: &pharmacyID,
		Role:       RoleOwner,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	require.Equal(t, payload.UserID, claims.UserID)
	require.NotNil(t, claims.PharmacyID)
	require.Equal(t, pharmacyID, *claims.PharmacyID)
	require.Equal(t, RoleOwner, claims.Role)
	require.Equal(t, PurposeAccess, claims.Purpose)
	require.NotEmpty(t, claims.ID)
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: RolePharmacist}

	signed, err := MintVerificationToken(cfg, time.Now(), payload)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)

	claims, err := ParseToken(cfg, signed, PurposeVerification)
	require.NoError(t, err)
	require.Equal(t, PurposeVerification, claims.Purpose)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: RoleOwner}

	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: RoleOwner}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)

	other := cfg
	other.Secret = "different-secret"
	_, err = ParseAccessToken(other, signed)
	require.Error(t, err)
}

func TestMintRejectsInvalidRole(t *testing.T) {
	cfg := testJWTConfig()
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: Role("superuser")})
	require.Error(t, err)
}
