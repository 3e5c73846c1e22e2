package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionTokenService_SignAndParse(t *testing.T) {
	svc := NewSessionTokenService(testSecret)

	token, err := svc.Sign("sess-1", time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "agrichain", claims.Issuer)
}

func TestSessionTokenService_ParseInvalidToken(t *testing.T) {
	svc := NewSessionTokenService(testSecret)

	_, err := svc.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewSessionTokenService("another-secret-another-secret-xx")
	token, err := other.Sign("sess-1", time.Now().Add(time.Hour))
	assert.NoError(t, err)
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenService_ParseExpiredToken(t *testing.T) {
	svc := NewSessionTokenService(testSecret)

	token, err := svc.Sign("sess-1", time.Now().Add(-time.Minute))
	assert.NoError(t, err)

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionTokenService_RejectsWrongSigningMethod(t *testing.T) {
	svc := NewSessionTokenService(testSecret)

	claims := gjwt.MapClaims{
		"sid": "sess-1",
		"iss": "agrichain",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.Parse(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenService_RejectsMissingSessionID(t *testing.T) {
	svc := NewSessionTokenService(testSecret)

	token := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"iss": "agrichain",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenService_SignError(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) { return "", errors.New("sign failed") }

	_, err := NewSessionTokenService(testSecret).Sign("sess-1", time.Now().Add(time.Hour))
	assert.Error(t, err)
}
